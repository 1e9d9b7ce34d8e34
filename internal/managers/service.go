package managers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db"
	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service maintains the store manager directory. Allocation writes validate
// manager references against it, so rows here must exist before any stock can
// be assigned to a store.
type Service interface {
	CreateManager(ctx context.Context, input CreateManagerInput) (*ManagerDTO, error)
	GetManager(ctx context.Context, managerID string) (*ManagerDTO, error)
	ListManagers(ctx context.Context) ([]ManagerDTO, error)
}

// CreateManagerInput registers one store.
type CreateManagerInput struct {
	ManagerID string
	Name      string
	Location  string
}

// ManagerDTO is the directory row returned to clients.
type ManagerDTO struct {
	ManagerID string `json:"manager_id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
}

type service struct {
	repo *Repository
}

// NewService constructs the directory service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("managers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateManager(ctx context.Context, input CreateManagerInput) (*ManagerDTO, error) {
	managerID := strings.TrimSpace(input.ManagerID)
	details := map[string]string{}
	if managerID == "" {
		details["manager_id"] = "is required"
	}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(input.Location) == "" {
		details["location"] = "is required"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manager payload invalid").WithDetails(details)
	}

	manager := &models.StoreManager{
		ID:       managerID,
		Name:     strings.TrimSpace(input.Name),
		Location: strings.TrimSpace(input.Location),
	}
	if err := s.repo.Create(ctx, manager); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "manager already exists").
				WithDetails(map[string]any{"manager_id": managerID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert manager")
	}
	return newManagerDTO(manager), nil
}

func (s *service) GetManager(ctx context.Context, managerID string) (*ManagerDTO, error) {
	manager, err := s.repo.FindByID(ctx, strings.TrimSpace(managerID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manager not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load manager")
	}
	return newManagerDTO(manager), nil
}

func (s *service) ListManagers(ctx context.Context) ([]ManagerDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list managers")
	}
	result := make([]ManagerDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *newManagerDTO(&rows[i]))
	}
	return result, nil
}

func newManagerDTO(manager *models.StoreManager) *ManagerDTO {
	return &ManagerDTO{
		ManagerID: manager.ID,
		Name:      manager.Name,
		Location:  manager.Location,
	}
}
