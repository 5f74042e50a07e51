package service

import (
	"context"
	"strings"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"go.uber.org/zap"
)

// SupplierService manages suppliers keyed by national id
type SupplierService struct {
	repo     SupplierRepository
	notifier changeNotifier
	logger   *zap.Logger
}

// NewSupplierService creates a new supplier service
func NewSupplierService(repo SupplierRepository, publisher EventPublisher) *SupplierService {
	return &SupplierService{
		repo:     repo,
		notifier: newChangeNotifier(publisher),
		logger:   util.GetLogger(),
	}
}

// SupplierRequest is the body of create and update requests.
// NationalID is ignored on update.
type SupplierRequest struct {
	NationalID  string  `json:"national_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	City        *string `json:"city"`
	Locality    *string `json:"locality"`
	Notes       *string `json:"notes"`
	Active      *bool   `json:"active"`
}

var supplierFailure = failure{
	notFound:  "supplier not found",
	dependent: "cannot delete: supplier is referenced by products or orders",
	duplicate: "supplier already exists",
}

// List returns suppliers ordered by name
func (s *SupplierService) List(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.List")
	defer span.End()

	suppliers, err := s.repo.ListSuppliers(ctx, activeOnly)
	return suppliers, supplierFailure.wrap(err)
}

// Get returns one supplier
func (s *SupplierService) Get(ctx context.Context, nationalID string) (*models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.Get")
	defer span.End()

	supplier, err := s.repo.GetSupplier(ctx, nationalID)
	if err != nil {
		return nil, supplierFailure.wrap(err)
	}
	return supplier, nil
}

// Create registers a supplier; active defaults to true
func (s *SupplierService) Create(ctx context.Context, req *SupplierRequest) (*models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.Create")
	defer span.End()

	nationalID := strings.TrimSpace(req.NationalID)
	var missing []string
	if nationalID == "" {
		missing = append(missing, "national_id")
	}
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	supplier := req.toModel(nationalID)
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, supplierFailure.wrap(err)
	}

	s.logger.Info("Supplier created", zap.String("national_id", supplier.NationalID))
	s.notifier.notify(ctx, models.EventTypeEntityCreated, models.EntitySupplier, supplier.NationalID)
	return supplier, nil
}

// Update replaces every field except the national id
func (s *SupplierService) Update(ctx context.Context, nationalID string, req *SupplierRequest) (*models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.Update")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, missingFields("name")
	}

	supplier := req.toModel(nationalID)
	if err := s.repo.UpdateSupplier(ctx, supplier); err != nil {
		return nil, supplierFailure.wrap(err)
	}

	s.notifier.notify(ctx, models.EventTypeEntityUpdated, models.EntitySupplier, supplier.NationalID)
	return supplier, nil
}

// Delete removes a supplier nothing references anymore
func (s *SupplierService) Delete(ctx context.Context, nationalID string) error {
	ctx, span := util.StartSpan(ctx, "SupplierService.Delete")
	defer span.End()

	if err := s.repo.DeleteSupplier(ctx, nationalID); err != nil {
		return supplierFailure.wrap(err)
	}

	s.logger.Info("Supplier deleted", zap.String("national_id", nationalID))
	s.notifier.notify(ctx, models.EventTypeEntityDeleted, models.EntitySupplier, nationalID)
	return nil
}

// Search matches term against id, name, phone, email and city
func (s *SupplierService) Search(ctx context.Context, term string) ([]models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.Search")
	defer span.End()

	suppliers, err := s.repo.SearchSuppliers(ctx, term)
	return suppliers, supplierFailure.wrap(err)
}

func (r *SupplierRequest) toModel(nationalID string) *models.Supplier {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &models.Supplier{
		NationalID:  nationalID,
		Name:        strings.TrimSpace(r.Name),
		Description: nonEmpty(r.Description),
		Phone:       nonEmpty(r.Phone),
		Email:       nonEmpty(r.Email),
		City:        nonEmpty(r.City),
		Locality:    nonEmpty(r.Locality),
		Notes:       nonEmpty(r.Notes),
		Active:      active,
	}
}

// nonEmpty maps blank optional strings to NULL.
func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
