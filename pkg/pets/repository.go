package pets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-care/platform/pkg/common/models"
	"gorm.io/gorm"
)

var ErrPetNotFound = errors.New("pet not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type PetModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	Species   string `gorm:"index"`
	Breed     string
	BirthDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PetModel) TableName() string {
	return "pets"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PetModel{})
}

type CreatePetInput struct {
	OwnerID   uuid.UUID
	Name      string
	Species   string
	Breed     string
	BirthDate time.Time
}

func (r *Repository) CreatePet(ctx context.Context, input CreatePetInput) (models.Pet, error) {
	pet := PetModel{
		ID:        uuid.New(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		Species:   input.Species,
		Breed:     input.Breed,
		BirthDate: input.BirthDate,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&pet).Error; err != nil {
		return models.Pet{}, err
	}

	return mapPetModel(pet), nil
}

func (r *Repository) GetPetByID(ctx context.Context, id uuid.UUID) (models.Pet, error) {
	var pet PetModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Pet{}, ErrPetNotFound
	}
	if err != nil {
		return models.Pet{}, err
	}
	return mapPetModel(pet), nil
}

func (r *Repository) ListPetsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error) {
	var rows []PetModel
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	pets := make([]models.Pet, 0, len(rows))
	for _, row := range rows {
		pets = append(pets, mapPetModel(row))
	}
	return pets, nil
}

// OwnerOf is the single authoritative ownership lookup used before issuing
// share tokens.
func (r *Repository) OwnerOf(ctx context.Context, petID uuid.UUID) (uuid.UUID, error) {
	var pet PetModel
	err := r.db.WithContext(ctx).Select("owner_id").Where("id = ?", petID).First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrPetNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return pet.OwnerID, nil
}

func mapPetModel(pet PetModel) models.Pet {
	return models.Pet{
		ID:        pet.ID,
		OwnerID:   pet.OwnerID,
		Name:      pet.Name,
		Species:   pet.Species,
		Breed:     pet.Breed,
		BirthDate: pet.BirthDate,
		CreatedAt: pet.CreatedAt,
		UpdatedAt: pet.UpdatedAt,
	}
}
