package sharing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/common/models"
	"github.com/pawprint-care/platform/pkg/pets"
)

func init() {
	logger.Init()
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// memStore mirrors the repository contract, including the rule that the
// expiry sweep runs on the store's clock.
type memStore struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]models.ShareToken
	clock    *fakeClock
	touchErr error
}

func newMemStore(clock *fakeClock) *memStore {
	return &memStore{rows: make(map[uuid.UUID]models.ShareToken), clock: clock}
}

func (s *memStore) Insert(ctx context.Context, rec models.ShareToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[rec.ID] = rec
	return nil
}

func (s *memStore) FindByToken(ctx context.Context, token string) (models.ShareToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.rows {
		if rec.Token == token {
			return rec, nil
		}
	}
	return models.ShareToken{}, ErrInvalidToken
}

func (s *memStore) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.touchErr != nil {
		return s.touchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok {
		return nil
	}
	rec.AccessedAt = &at
	rec.AccessCount++
	s.rows[id] = rec
	return nil
}

func (s *memStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	var deleted int64
	for id, rec := range s.rows {
		if rec.ExpiresAt.Before(now) {
			delete(s.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memStore) DeleteByCreator(ctx context.Context, id, createdBy uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok || rec.CreatedBy != createdBy {
		return 0, nil
	}
	delete(s.rows, id)
	return 1, nil
}

func (s *memStore) ListActive(ctx context.Context, petID, createdBy uuid.UUID) ([]models.ShareToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	var tokens []models.ShareToken
	for _, rec := range s.rows {
		if rec.PetID == petID && rec.CreatedBy == createdBy && rec.ExpiresAt.After(now) {
			tokens = append(tokens, rec)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].CreatedAt.After(tokens[j].CreatedAt)
	})
	return tokens, nil
}

type ownerMap map[uuid.UUID]uuid.UUID

func (m ownerMap) OwnerOf(ctx context.Context, petID uuid.UUID) (uuid.UUID, error) {
	owner, ok := m[petID]
	if !ok {
		return uuid.Nil, pets.ErrPetNotFound
	}
	return owner, nil
}

func newTestService() (*Service, *memStore, *fakeClock, uuid.UUID, uuid.UUID) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	store := newMemStore(clock)
	ownerID := uuid.New()
	petID := uuid.New()
	service := NewService(store, ownerMap{petID: ownerID}, "app.pawprint.care", 2*time.Hour)
	service.now = clock.Now
	return service, store, clock, ownerID, petID
}

func TestIssueTokenOwnershipGate(t *testing.T) {
	service, _, _, _, petID := newTestService()
	ctx := context.Background()

	stranger := uuid.New()
	if _, err := service.IssueToken(ctx, petID, stranger, 0); !errors.Is(err, ErrNotFoundOrUnauthorized) {
		t.Fatalf("expected ErrNotFoundOrUnauthorized for non-owner, got %v", err)
	}

	if _, err := service.IssueToken(ctx, uuid.New(), stranger, 0); !errors.Is(err, ErrNotFoundOrUnauthorized) {
		t.Fatalf("expected ErrNotFoundOrUnauthorized for missing pet, got %v", err)
	}
}

func TestIssuedTokensAreUnique(t *testing.T) {
	service, _, _, ownerID, petID := newTestService()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		share, err := service.IssueToken(ctx, petID, ownerID, 0)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		if seen[share.Token] {
			t.Fatalf("duplicate token issued: %s", share.Token)
		}
		seen[share.Token] = true
	}
}

func TestIssueTokenAppliesDefaultWindow(t *testing.T) {
	service, _, clock, ownerID, petID := newTestService()
	ctx := context.Background()

	share, err := service.IssueToken(ctx, petID, ownerID, 0)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if want := clock.Now().Add(2 * time.Hour); !share.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, share.ExpiresAt)
	}

	wantURL := "https://app.pawprint.care/medical-history/" + petID.String() + "?token=" + share.Token
	if share.ShareURL != wantURL {
		t.Fatalf("expected share url %s, got %s", wantURL, share.ShareURL)
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	service, _, clock, ownerID, petID := newTestService()
	ctx := context.Background()

	share, err := service.IssueToken(ctx, petID, ownerID, 2*time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	clock.Advance(2*time.Hour - time.Nanosecond)
	result, err := service.VerifyToken(ctx, share.Token)
	if err != nil || result.Expired {
		t.Fatalf("expected valid verification just before expiry, got result=%+v err=%v", result, err)
	}

	// The boundary instant itself is expired.
	clock.Advance(time.Nanosecond)
	result, err = service.VerifyToken(ctx, share.Token)
	if err != nil {
		t.Fatalf("expected expired result, got error %v", err)
	}
	if !result.Expired {
		t.Fatal("expected Expired=true at the boundary instant")
	}

	clock.Advance(time.Nanosecond)
	result, err = service.VerifyToken(ctx, share.Token)
	if err != nil || !result.Expired {
		t.Fatalf("expected expired result past the boundary, got result=%+v err=%v", result, err)
	}
}

func TestShareLifecycleScenario(t *testing.T) {
	service, _, clock, ownerID, petID := newTestService()
	ctx := context.Background()

	share, err := service.IssueToken(ctx, petID, ownerID, 2*time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	result, err := service.VerifyToken(ctx, share.Token)
	if err != nil || result.Expired {
		t.Fatalf("first verification failed: result=%+v err=%v", result, err)
	}
	if result.PetID != petID {
		t.Fatalf("expected pet %s, got %s", petID, result.PetID)
	}
	if result.AccessCount != 1 {
		t.Fatalf("expected access count 1, got %d", result.AccessCount)
	}

	result, err = service.VerifyToken(ctx, share.Token)
	if err != nil || result.AccessCount != 2 {
		t.Fatalf("expected access count 2, got result=%+v err=%v", result, err)
	}

	clock.Advance(3 * time.Hour)
	result, err = service.VerifyToken(ctx, share.Token)
	if err != nil || !result.Expired {
		t.Fatalf("expected expired result, got result=%+v err=%v", result, err)
	}
	if result.AccessCount != 2 {
		t.Fatalf("expired verification must not change the count, got %d", result.AccessCount)
	}

	deleted, err := service.CleanupExpired(ctx)
	if err != nil || deleted != 1 {
		t.Fatalf("expected cleanup to delete 1 row, got %d (err=%v)", deleted, err)
	}

	if _, err := service.VerifyToken(ctx, share.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after cleanup, got %v", err)
	}

	deleted, err = service.CleanupExpired(ctx)
	if err != nil || deleted != 0 {
		t.Fatalf("expected second cleanup to delete 0 rows, got %d (err=%v)", deleted, err)
	}
}

func TestVerifyTelemetryIsBestEffort(t *testing.T) {
	service, store, _, ownerID, petID := newTestService()
	ctx := context.Background()

	share, err := service.IssueToken(ctx, petID, ownerID, 0)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	store.touchErr = errors.New("store unavailable")
	result, err := service.VerifyToken(ctx, share.Token)
	if err != nil {
		t.Fatalf("verification must succeed when the telemetry update fails, got %v", err)
	}
	if result.Expired {
		t.Fatal("unexpected expired result")
	}
	if result.PetID != petID {
		t.Fatalf("expected pet %s, got %s", petID, result.PetID)
	}
}

func TestRevokeScoping(t *testing.T) {
	service, _, _, ownerID, petID := newTestService()
	ctx := context.Background()

	share, err := service.IssueToken(ctx, petID, ownerID, 0)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	stranger := uuid.New()
	if err := service.Revoke(ctx, share.TokenID, stranger); !errors.Is(err, ErrNotFoundOrUnauthorized) {
		t.Fatalf("expected ErrNotFoundOrUnauthorized for foreign revoke, got %v", err)
	}

	// The token is untouched by the failed revoke.
	if result, err := service.VerifyToken(ctx, share.Token); err != nil || result.Expired {
		t.Fatalf("token should remain verifiable, got result=%+v err=%v", result, err)
	}

	if err := service.Revoke(ctx, share.TokenID, ownerID); err != nil {
		t.Fatalf("owner revoke failed: %v", err)
	}
	if _, err := service.VerifyToken(ctx, share.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after revoke, got %v", err)
	}
}

func TestListActiveNewestFirst(t *testing.T) {
	service, _, clock, ownerID, petID := newTestService()
	ctx := context.Background()

	first, err := service.IssueToken(ctx, petID, ownerID, 4*time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	clock.Advance(time.Minute)
	short, err := service.IssueToken(ctx, petID, ownerID, time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	clock.Advance(time.Minute)
	second, err := service.IssueToken(ctx, petID, ownerID, 4*time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	// The short-lived token has expired by now.
	clock.Advance(time.Second)

	tokens, err := service.ListActive(ctx, petID, ownerID)
	if err != nil {
		t.Fatalf("failed to list active shares: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 active shares, got %d", len(tokens))
	}
	if tokens[0].ID != second.TokenID || tokens[1].ID != first.TokenID {
		t.Fatalf("expected newest-first ordering, got %v then %v (short-lived was %v)", tokens[0].ID, tokens[1].ID, short.TokenID)
	}
}
