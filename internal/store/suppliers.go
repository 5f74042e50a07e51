package store

import (
	"context"
	"fmt"

	"warehouse-service/internal/models"
)

const supplierColumns = `cedula, nombre, descripcion, telefono, correo, ciudad, vereda, observaciones, activo`

// ListSuppliers returns suppliers ordered by name, optionally only active ones
func (s *Store) ListSuppliers(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	where := ""
	if activeOnly {
		where = "WHERE activo = true"
	}
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY nombre", supplierColumns, s.t.supplier, where)

	if err := s.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, classify(err)
	}
	return suppliers, nil
}

// GetSupplier retrieves a supplier by national id
func (s *Store) GetSupplier(ctx context.Context, nationalID string) (*models.Supplier, error) {
	var supplier models.Supplier
	query := fmt.Sprintf("SELECT %s FROM %s WHERE cedula = $1", supplierColumns, s.t.supplier)
	if err := s.db.GetContext(ctx, &supplier, query, nationalID); err != nil {
		return nil, classify(err)
	}
	return &supplier, nil
}

// CreateSupplier inserts a supplier; a duplicate national id is a unique violation
func (s *Store) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, s.t.supplier, supplierColumns, supplierColumns)

	return classify(s.db.GetContext(ctx, sup, query,
		sup.NationalID, sup.Name, sup.Description, sup.Phone, sup.Email,
		sup.City, sup.Locality, sup.Notes, sup.Active))
}

// UpdateSupplier replaces every mutable field of a supplier
func (s *Store) UpdateSupplier(ctx context.Context, sup *models.Supplier) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET nombre = $1, descripcion = $2, telefono = $3, correo = $4,
		    ciudad = $5, vereda = $6, observaciones = $7, activo = $8
		WHERE cedula = $9
		RETURNING %s`, s.t.supplier, supplierColumns)

	return classify(s.db.GetContext(ctx, sup, query,
		sup.Name, sup.Description, sup.Phone, sup.Email, sup.City,
		sup.Locality, sup.Notes, sup.Active, sup.NationalID))
}

// DeleteSupplier removes a supplier; referencing products or orders make it a reference violation
func (s *Store) DeleteSupplier(ctx context.Context, nationalID string) error {
	return s.deleteByID(ctx, s.t.supplier, "cedula", nationalID)
}

// SearchSuppliers matches term against id, name, phone, email and city
func (s *Store) SearchSuppliers(ctx context.Context, term string) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE cedula ILIKE $1 OR nombre ILIKE $1 OR telefono ILIKE $1
		   OR correo ILIKE $1 OR ciudad ILIKE $1
		ORDER BY nombre`, supplierColumns, s.t.supplier)

	if err := s.db.SelectContext(ctx, &suppliers, query, containsPattern(term)); err != nil {
		return nil, classify(err)
	}
	return suppliers, nil
}
