package sharing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-care/platform/pkg/common/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken           = errors.New("invalid token")
	ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")
)

// Store is the persistence contract for share tokens. The gorm Repository is
// the production implementation; tests run against an in-memory store.
type Store interface {
	Insert(ctx context.Context, rec models.ShareToken) error
	FindByToken(ctx context.Context, token string) (models.ShareToken, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context) (int64, error)
	DeleteByCreator(ctx context.Context, id, createdBy uuid.UUID) (int64, error)
	ListActive(ctx context.Context, petID, createdBy uuid.UUID) ([]models.ShareToken, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ShareTokenModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PetID       uuid.UUID `gorm:"type:uuid;index"`
	Token       string    `gorm:"uniqueIndex"`
	ExpiresAt   time.Time `gorm:"index"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;index"`
	AccessedAt  *time.Time
	AccessCount int64
	CreatedAt   time.Time
}

func (ShareTokenModel) TableName() string {
	return "medical_share_tokens"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ShareTokenModel{})
}

func (r *Repository) Insert(ctx context.Context, rec models.ShareToken) error {
	row := ShareTokenModel{
		ID:          rec.ID,
		PetID:       rec.PetID,
		Token:       rec.Token,
		ExpiresAt:   rec.ExpiresAt,
		CreatedBy:   rec.CreatedBy,
		AccessCount: rec.AccessCount,
		CreatedAt:   rec.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) FindByToken(ctx context.Context, token string) (models.ShareToken, error) {
	var row ShareTokenModel
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ShareToken{}, ErrInvalidToken
	}
	if err != nil {
		return models.ShareToken{}, err
	}
	return mapShareTokenModel(row), nil
}

// Touch records a successful verification. Touching a row that was deleted
// in the meantime affects zero rows and is not an error.
func (r *Repository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&ShareTokenModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"accessed_at":  at,
			"access_count": gorm.Expr("access_count + 1"),
		}).Error
}

// DeleteExpired sweeps on the database clock, never the caller's.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < NOW()").Delete(&ShareTokenModel{})
	return result.RowsAffected, result.Error
}

func (r *Repository) DeleteByCreator(ctx context.Context, id, createdBy uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND created_by = ?", id, createdBy).Delete(&ShareTokenModel{})
	return result.RowsAffected, result.Error
}

func (r *Repository) ListActive(ctx context.Context, petID, createdBy uuid.UUID) ([]models.ShareToken, error) {
	var rows []ShareTokenModel
	err := r.db.WithContext(ctx).
		Where("pet_id = ? AND created_by = ? AND expires_at > NOW()", petID, createdBy).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	tokens := make([]models.ShareToken, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, mapShareTokenModel(row))
	}
	return tokens, nil
}

func mapShareTokenModel(row ShareTokenModel) models.ShareToken {
	return models.ShareToken{
		ID:          row.ID,
		PetID:       row.PetID,
		Token:       row.Token,
		ExpiresAt:   row.ExpiresAt,
		CreatedBy:   row.CreatedBy,
		AccessedAt:  row.AccessedAt,
		AccessCount: row.AccessCount,
		CreatedAt:   row.CreatedAt,
	}
}
