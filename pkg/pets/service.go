package pets

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pawprint-care/platform/pkg/common/models"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) RegisterPet(ctx context.Context, ownerID uuid.UUID, req models.CreatePetRequest) (models.Pet, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.Pet{}, fmt.Errorf("pet name required")
	}
	species := strings.ToLower(strings.TrimSpace(req.Species))
	if species == "" {
		species = "other"
	}

	return s.repo.CreatePet(ctx, CreatePetInput{
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(req.Name),
		Species:   species,
		Breed:     strings.TrimSpace(req.Breed),
		BirthDate: req.BirthDate,
	})
}

func (s *Service) GetPet(ctx context.Context, id uuid.UUID) (models.Pet, error) {
	return s.repo.GetPetByID(ctx, id)
}

func (s *Service) ListPets(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error) {
	return s.repo.ListPetsByOwner(ctx, ownerID)
}
