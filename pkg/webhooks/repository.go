package webhooks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type DeliveryModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Subscriber   string    `gorm:"index"`
	Event        string    `gorm:"index"`
	ResourceID   string
	Payload      datatypes.JSONMap `gorm:"type:jsonb"`
	Status       string            `gorm:"index"` // delivered, failed
	ResponseCode int
	Error        string
	CreatedAt    time.Time
}

func (DeliveryModel) TableName() string {
	return "webhook_deliveries"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&DeliveryModel{})
}

type RecordDeliveryInput struct {
	Subscriber   string
	Event        string
	ResourceID   string
	Payload      map[string]interface{}
	Status       string
	ResponseCode int
	Error        string
}

func (r *Repository) RecordDelivery(ctx context.Context, input RecordDeliveryInput) error {
	row := DeliveryModel{
		ID:           uuid.New(),
		Subscriber:   input.Subscriber,
		Event:        input.Event,
		ResourceID:   input.ResourceID,
		Payload:      datatypes.JSONMap(input.Payload),
		Status:       input.Status,
		ResponseCode: input.ResponseCode,
		Error:        input.Error,
		CreatedAt:    time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListDeliveries(ctx context.Context, subscriber string, limit int) ([]DeliveryModel, error) {
	if limit <= 0 {
		limit = 100
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if subscriber != "" {
		query = query.Where("subscriber = ?", subscriber)
	}

	var rows []DeliveryModel
	err := query.Find(&rows).Error
	return rows, err
}
