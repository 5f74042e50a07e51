package store

import (
	"context"
	"fmt"

	"warehouse-service/internal/models"
)

// ListProducts returns products newest first with the supplier name resolved.
// Products whose supplier no longer resolves carry a placeholder name.
func (s *Store) ListProducts(ctx context.Context) ([]models.ProductView, error) {
	products := []models.ProductView{}
	query := fmt.Sprintf(`
		SELECT p.id_producto, p.descripcion, p.cedula,
		       COALESCE(pr.nombre, $1) AS nombre_proveedor
		FROM %s p
		LEFT JOIN %s pr ON p.cedula = pr.cedula
		ORDER BY p.id_producto DESC`, s.t.product, s.t.supplier)

	if err := s.db.SelectContext(ctx, &products, query, models.MissingSupplierName); err != nil {
		return nil, classify(err)
	}
	return products, nil
}

// GetProduct retrieves a product by id
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	query := fmt.Sprintf("SELECT id_producto, descripcion, cedula FROM %s WHERE id_producto = $1", s.t.product)
	if err := s.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, classify(err)
	}
	return &product, nil
}

// CreateProduct inserts a product; an unknown supplier is a reference violation
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id_producto, descripcion, cedula)
		VALUES ($1, $2, $3)
		RETURNING id_producto, descripcion, cedula`, s.t.product)

	return classify(s.db.GetContext(ctx, p, query, p.ID, p.Description, p.SupplierID))
}

// UpdateProduct replaces description and supplier of an existing product
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	query := fmt.Sprintf(`
		UPDATE %s SET descripcion = $1, cedula = $2
		WHERE id_producto = $3
		RETURNING id_producto, descripcion, cedula`, s.t.product)

	return classify(s.db.GetContext(ctx, p, query, p.Description, p.SupplierID, p.ID))
}

// DeleteProduct removes a product by id
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, s.t.product, "id_producto", id)
}

// CountProductReferences counts inventory lots and orders pointing at a product
func (s *Store) CountProductReferences(ctx context.Context, id string) (int, error) {
	var total int
	query := fmt.Sprintf(`
		SELECT (SELECT COUNT(*) FROM %s WHERE id_producto = $1)
		     + (SELECT COUNT(*) FROM %s WHERE id_producto = $1)`, s.t.inventory, s.t.order)

	if err := s.db.GetContext(ctx, &total, query, id); err != nil {
		return 0, classify(err)
	}
	return total, nil
}
