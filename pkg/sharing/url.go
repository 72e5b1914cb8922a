package sharing

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// ComposeShareURL builds the shareable link for a pet's medical history:
// https://{baseDomain}/medical-history/{petID}?token={token}
func ComposeShareURL(baseDomain string, petID uuid.UUID, token string) string {
	return fmt.Sprintf("https://%s/medical-history/%s?token=%s", baseDomain, petID, url.QueryEscape(token))
}
