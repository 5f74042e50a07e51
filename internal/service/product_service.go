package service

import (
	"context"
	"strings"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService manages the product catalog
type ProductService struct {
	repo     ProductRepository
	notifier changeNotifier
	logger   *zap.Logger
	// deleteGuard refuses to delete products that inventory lots or orders still reference
	deleteGuard bool
}

// NewProductService creates a new product service
func NewProductService(repo ProductRepository, publisher EventPublisher, deleteGuard bool) *ProductService {
	return &ProductService{
		repo:        repo,
		notifier:    newChangeNotifier(publisher),
		logger:      util.GetLogger(),
		deleteGuard: deleteGuard,
	}
}

// ProductRequest is the body of create and update requests. ID is optional
// on create and ignored on update.
type ProductRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	SupplierID  string `json:"supplier_id"`
}

const productReferencedMessage = "cannot delete: product is referenced by inventory lots or orders"

var productFailure = failure{
	notFound:  "product not found",
	reference: "supplier not found",
	duplicate: "product already exists",
}

var productDeleteFailure = failure{
	notFound:  "product not found",
	dependent: productReferencedMessage,
}

// List returns products newest first with supplier names resolved
func (s *ProductService) List(ctx context.Context) ([]models.ProductView, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.List")
	defer span.End()

	products, err := s.repo.ListProducts(ctx)
	return products, productFailure.wrap(err)
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Get")
	defer span.End()

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, productFailure.wrap(err)
	}
	return product, nil
}

// Create adds a product. The supplier reference is checked by the database.
func (s *ProductService) Create(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Create")
	defer span.End()

	if err := req.validate(); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.New().String()
	}

	product := &models.Product{
		ID:          id,
		Description: strings.TrimSpace(req.Description),
		SupplierID:  strings.TrimSpace(req.SupplierID),
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, productFailure.wrap(err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("supplier_id", product.SupplierID))
	s.notifier.notify(ctx, models.EventTypeEntityCreated, models.EntityProduct, product.ID)
	return product, nil
}

// Update replaces description and supplier; the id never changes
func (s *ProductService) Update(ctx context.Context, id string, req *ProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Update")
	defer span.End()

	if err := req.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          id,
		Description: strings.TrimSpace(req.Description),
		SupplierID:  strings.TrimSpace(req.SupplierID),
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, productFailure.wrap(err)
	}

	s.notifier.notify(ctx, models.EventTypeEntityUpdated, models.EntityProduct, product.ID)
	return product, nil
}

// Delete removes a product. With the guard on, products still referenced by
// inventory lots or orders are kept.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "ProductService.Delete")
	defer span.End()

	if s.deleteGuard {
		refs, err := s.repo.CountProductReferences(ctx, id)
		if err != nil {
			return productDeleteFailure.wrap(err)
		}
		if refs > 0 {
			s.logger.Info("Product delete refused",
				zap.String("product_id", id),
				zap.Int("references", refs))
			return &Error{Kind: KindDependency, Message: productReferencedMessage}
		}
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return productDeleteFailure.wrap(err)
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	s.notifier.notify(ctx, models.EventTypeEntityDeleted, models.EntityProduct, id)
	return nil
}

func (r *ProductRequest) validate() error {
	var missing []string
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(r.SupplierID) == "" {
		missing = append(missing, "supplier_id")
	}
	if len(missing) > 0 {
		return missingFields(missing...)
	}
	return nil
}
