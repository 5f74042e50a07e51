package store

import (
	"context"
	"fmt"

	"warehouse-service/internal/models"
)

// ListWarehouses returns every warehouse ordered by id
func (s *Store) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	warehouses := []models.Warehouse{}
	query := fmt.Sprintf("SELECT id_bodega, codigo FROM %s ORDER BY id_bodega", s.t.warehouse)
	if err := s.db.SelectContext(ctx, &warehouses, query); err != nil {
		return nil, classify(err)
	}
	return warehouses, nil
}

// CreateWarehouse inserts a warehouse; the id is generated by the database
func (s *Store) CreateWarehouse(ctx context.Context, w *models.Warehouse) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (codigo)
		VALUES ($1)
		RETURNING id_bodega, codigo`, s.t.warehouse)

	return classify(s.db.GetContext(ctx, w, query, w.Code))
}

// UpdateWarehouse replaces the code of an existing warehouse
func (s *Store) UpdateWarehouse(ctx context.Context, w *models.Warehouse) error {
	query := fmt.Sprintf(`
		UPDATE %s SET codigo = $1
		WHERE id_bodega = $2
		RETURNING id_bodega, codigo`, s.t.warehouse)

	return classify(s.db.GetContext(ctx, w, query, w.Code, w.ID))
}

// DeleteWarehouse removes a warehouse by id
func (s *Store) DeleteWarehouse(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, s.t.warehouse, "id_bodega", id)
}

// SearchWarehouses matches term against id and code, case-insensitively
func (s *Store) SearchWarehouses(ctx context.Context, term string) ([]models.Warehouse, error) {
	warehouses := []models.Warehouse{}
	query := fmt.Sprintf(`
		SELECT id_bodega, codigo FROM %s
		WHERE id_bodega::text ILIKE $1 OR codigo ILIKE $1
		ORDER BY id_bodega`, s.t.warehouse)

	if err := s.db.SelectContext(ctx, &warehouses, query, containsPattern(term)); err != nil {
		return nil, classify(err)
	}
	return warehouses, nil
}
