package store

import (
	"context"
	"fmt"

	"warehouse-service/internal/models"
)

const lotColumns = `id_inventario, id_producto, id_bodega, fecha_entrada, fecha_salida, humedad, fermentacion`

func (s *Store) lotViewQuery(where string) string {
	return fmt.Sprintf(`
		SELECT i.id_inventario, i.id_producto, i.id_bodega, i.fecha_entrada, i.fecha_salida,
		       i.humedad, i.fermentacion,
		       p.descripcion AS producto_desc, b.codigo AS bodega_codigo
		FROM %s i
		LEFT JOIN %s p ON i.id_producto = p.id_producto
		LEFT JOIN %s b ON i.id_bodega = b.id_bodega
		%s
		ORDER BY i.id_inventario DESC`, s.t.inventory, s.t.product, s.t.warehouse, where)
}

// ListLots returns every inventory lot newest first with product and warehouse resolved
func (s *Store) ListLots(ctx context.Context) ([]models.InventoryLotView, error) {
	lots := []models.InventoryLotView{}
	if err := s.db.SelectContext(ctx, &lots, s.lotViewQuery("")); err != nil {
		return nil, classify(err)
	}
	return lots, nil
}

// GetLot retrieves one inventory lot with product and warehouse resolved
func (s *Store) GetLot(ctx context.Context, id int64) (*models.InventoryLotView, error) {
	var lot models.InventoryLotView
	if err := s.db.GetContext(ctx, &lot, s.lotViewQuery("WHERE i.id_inventario = $1"), id); err != nil {
		return nil, classify(err)
	}
	return &lot, nil
}

// CreateLot inserts an inventory lot
func (s *Store) CreateLot(ctx context.Context, lot *models.InventoryLot) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id_producto, id_bodega, fecha_entrada, fecha_salida, humedad, fermentacion)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, s.t.inventory, lotColumns)

	return classify(s.db.GetContext(ctx, lot, query,
		lot.ProductID, lot.WarehouseID, lot.EntryDate, lot.ExitDate, lot.Humidity, lot.Fermentation))
}

// UpdateLot replaces every field of an existing inventory lot
func (s *Store) UpdateLot(ctx context.Context, lot *models.InventoryLot) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET id_producto = $1, id_bodega = $2, fecha_entrada = $3, fecha_salida = $4,
		    humedad = $5, fermentacion = $6
		WHERE id_inventario = $7
		RETURNING %s`, s.t.inventory, lotColumns)

	return classify(s.db.GetContext(ctx, lot, query,
		lot.ProductID, lot.WarehouseID, lot.EntryDate, lot.ExitDate, lot.Humidity, lot.Fermentation, lot.ID))
}

// DeleteLot removes an inventory lot by id
func (s *Store) DeleteLot(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, s.t.inventory, "id_inventario", id)
}

// SearchLots matches term against id, product description, warehouse code and
// the textual form of the humidity and fermentation measurements
func (s *Store) SearchLots(ctx context.Context, term string) ([]models.InventoryLotView, error) {
	lots := []models.InventoryLotView{}
	query := s.lotViewQuery(`
		WHERE i.id_inventario::text ILIKE $1
		   OR p.descripcion ILIKE $1
		   OR b.codigo ILIKE $1
		   OR i.humedad::text ILIKE $1
		   OR i.fermentacion::text ILIKE $1`)

	if err := s.db.SelectContext(ctx, &lots, query, containsPattern(term)); err != nil {
		return nil, classify(err)
	}
	return lots, nil
}
