package services

import (
	"context"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

type EquipmentService struct {
	Repo *repositories.EquipmentRepository
}

func NewEquipmentService(repo *repositories.EquipmentRepository) *EquipmentService {
	return &EquipmentService{Repo: repo}
}

func (s *EquipmentService) AddEquipment(ctx context.Context, eq *models.Equipment) error {
	if eq.Name == "" {
		return &ValidationError{Op: "add equipment", Reason: "name is required"}
	}
	return s.Repo.Create(ctx, eq)
}

func (s *EquipmentService) GetEquipment(ctx context.Context, id int) (*models.Equipment, error) {
	return s.Repo.Get(ctx, id)
}

func (s *EquipmentService) ListEquipment(ctx context.Context) ([]*models.Equipment, error) {
	return s.Repo.List(ctx)
}

func (s *EquipmentService) ListByCategory(ctx context.Context, category string) ([]*models.Equipment, error) {
	return s.Repo.ListByCategory(ctx, category)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id int, req *models.UpdateEquipmentRequest) (*models.Equipment, error) {
	return s.Repo.Update(ctx, id, req)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
