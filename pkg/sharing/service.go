package sharing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/common/models"
	"github.com/pawprint-care/platform/pkg/pets"
)

const DefaultShareWindow = 2 * time.Hour

// OwnerResolver answers "who owns pet X". Implemented by pets.Repository.
type OwnerResolver interface {
	OwnerOf(ctx context.Context, petID uuid.UUID) (uuid.UUID, error)
}

// EventPublisher is satisfied by kafka.Producer. A nil publisher disables
// event emission.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// VerifyResult is a discriminated verification outcome. Expired is a common,
// user-actionable result and deliberately not an error.
type VerifyResult struct {
	PetID       uuid.UUID `json:"pet_id"`
	AccessCount int64     `json:"access_count"`
	Expired     bool      `json:"expired,omitempty"`
}

type Service struct {
	store      Store
	owners     OwnerResolver
	events     EventPublisher
	baseDomain string
	window     time.Duration
	now        func() time.Time
}

func NewService(store Store, owners OwnerResolver, baseDomain string, window time.Duration) *Service {
	if window <= 0 {
		window = DefaultShareWindow
	}
	return &Service{
		store:      store,
		owners:     owners,
		baseDomain: baseDomain,
		window:     window,
		now:        time.Now,
	}
}

// SetEventPublisher wires domain-event emission. Optional.
func (s *Service) SetEventPublisher(events EventPublisher) {
	s.events = events
}

// IssueToken mints a share token for petID after confirming requesterID owns
// it. A missing pet and a foreign pet are indistinguishable to the caller.
func (s *Service) IssueToken(ctx context.Context, petID, requesterID uuid.UUID, window time.Duration) (models.IssuedShare, error) {
	if requesterID == uuid.Nil {
		return models.IssuedShare{}, ErrNotFoundOrUnauthorized
	}

	ownerID, err := s.owners.OwnerOf(ctx, petID)
	if err != nil {
		if errors.Is(err, pets.ErrPetNotFound) {
			return models.IssuedShare{}, ErrNotFoundOrUnauthorized
		}
		return models.IssuedShare{}, fmt.Errorf("owner lookup: %w", err)
	}
	if ownerID != requesterID {
		return models.IssuedShare{}, ErrNotFoundOrUnauthorized
	}

	if window <= 0 {
		window = s.window
	}

	token, err := generateToken()
	if err != nil {
		return models.IssuedShare{}, err
	}

	now := s.now()
	rec := models.ShareToken{
		ID:          uuid.New(),
		PetID:       petID,
		Token:       token,
		ExpiresAt:   now.Add(window),
		CreatedBy:   requesterID,
		AccessCount: 0,
		CreatedAt:   now,
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		return models.IssuedShare{}, fmt.Errorf("persist share token: %w", err)
	}

	s.publish(ctx, "share.token.issued", map[string]interface{}{
		"token_id":   rec.ID.String(),
		"pet_id":     petID.String(),
		"created_by": requesterID.String(),
		"expires_at": rec.ExpiresAt,
	})

	return models.IssuedShare{
		TokenID:   rec.ID,
		Token:     token,
		ExpiresAt: rec.ExpiresAt,
		ShareURL:  ComposeShareURL(s.baseDomain, petID, token),
	}, nil
}

// VerifyToken resolves a presented bearer token. An unknown token returns
// ErrInvalidToken; a known but expired token returns Expired=true with no
// error. The telemetry update is best-effort: its failure never fails an
// otherwise valid verification.
func (s *Service) VerifyToken(ctx context.Context, token string) (VerifyResult, error) {
	if token == "" {
		return VerifyResult{}, ErrInvalidToken
	}

	rec, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return VerifyResult{}, err
	}

	if !s.now().Before(rec.ExpiresAt) {
		return VerifyResult{PetID: rec.PetID, AccessCount: rec.AccessCount, Expired: true}, nil
	}

	if err := s.store.Touch(ctx, rec.ID, s.now()); err != nil {
		logger.Log.WithError(err).WithField("token_id", rec.ID).Warn("share access telemetry update failed")
	}

	s.publish(ctx, "share.token.verified", map[string]interface{}{
		"token_id": rec.ID.String(),
		"pet_id":   rec.PetID.String(),
	})

	return VerifyResult{PetID: rec.PetID, AccessCount: rec.AccessCount + 1}, nil
}

// CleanupExpired deletes every expired row. Idempotent.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx)
}

// Revoke deletes one token, scoped to its creator. Revoking someone else's
// token (or a token that no longer exists) affects zero rows.
func (s *Service) Revoke(ctx context.Context, tokenID, requesterID uuid.UUID) error {
	affected, err := s.store.DeleteByCreator(ctx, tokenID, requesterID)
	if err != nil {
		return fmt.Errorf("revoke share token: %w", err)
	}
	if affected == 0 {
		return ErrNotFoundOrUnauthorized
	}

	s.publish(ctx, "share.token.revoked", map[string]interface{}{
		"token_id":   tokenID.String(),
		"revoked_by": requesterID.String(),
	})
	return nil
}

// ListActive returns the requester's outstanding shares for a pet, newest
// first.
func (s *Service) ListActive(ctx context.Context, petID, requesterID uuid.UUID) ([]models.ShareToken, error) {
	return s.store.ListActive(ctx, petID, requesterID)
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, eventType, "share-service", data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("failed to publish share event")
	}
}
