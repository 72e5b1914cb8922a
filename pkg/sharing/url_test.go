package sharing

import (
	"testing"

	"github.com/google/uuid"
)

func TestComposeShareURL(t *testing.T) {
	petID := uuid.MustParse("7b3a1f46-9f0e-4a8c-b2d1-3c5e8a90f1d2")

	url := ComposeShareURL("app.pawprint.care", petID, "abc-123_XYZ")
	want := "https://app.pawprint.care/medical-history/7b3a1f46-9f0e-4a8c-b2d1-3c5e8a90f1d2?token=abc-123_XYZ"
	if url != want {
		t.Fatalf("expected %s, got %s", want, url)
	}
}

func TestComposeShareURLEscapesToken(t *testing.T) {
	petID := uuid.New()

	url := ComposeShareURL("app.pawprint.care", petID, "a+b c")
	want := "https://app.pawprint.care/medical-history/" + petID.String() + "?token=a%2Bb+c"
	if url != want {
		t.Fatalf("expected %s, got %s", want, url)
	}
}
