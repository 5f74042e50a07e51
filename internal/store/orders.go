package store

import (
	"context"
	"fmt"

	"warehouse-service/internal/models"
)

const orderColumns = `id_pedido, cedula, id_producto, fecha_entrega, cantidad, peso_total, observaciones, recibido`

func (s *Store) orderViewQuery(where string) string {
	return fmt.Sprintf(`
		SELECT o.id_pedido, o.cedula, o.id_producto, o.fecha_entrega, o.cantidad,
		       o.peso_total, o.observaciones, o.recibido,
		       pr.nombre AS proveedor_nombre, prod.descripcion AS producto_desc
		FROM %s o
		LEFT JOIN %s pr ON o.cedula = pr.cedula
		LEFT JOIN %s prod ON o.id_producto = prod.id_producto
		%s
		ORDER BY o.id_pedido DESC`, s.t.order, s.t.supplier, s.t.product, where)
}

// ListOrders returns every order newest first with supplier and product resolved
func (s *Store) ListOrders(ctx context.Context) ([]models.OrderView, error) {
	orders := []models.OrderView{}
	if err := s.db.SelectContext(ctx, &orders, s.orderViewQuery("")); err != nil {
		return nil, classify(err)
	}
	return orders, nil
}

// GetOrder retrieves an order by ID
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.OrderView, error) {
	var order models.OrderView
	if err := s.db.GetContext(ctx, &order, s.orderViewQuery("WHERE o.id_pedido = $1"), id); err != nil {
		return nil, classify(err)
	}
	return &order, nil
}

// CreateOrder inserts an order. The id is assigned by the table's trigger and
// the fulfilled flag always starts false.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (cedula, id_producto, fecha_entrega, cantidad, peso_total, observaciones, recibido)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		RETURNING %s`, s.t.order, orderColumns)

	return classify(s.db.GetContext(ctx, order, query,
		order.SupplierID, order.ProductID, order.DeliveryDate, order.Quantity,
		order.TotalWeight, order.Notes))
}

// UpdateOrder replaces every field of an existing order
func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET cedula = $1, id_producto = $2, fecha_entrega = $3, cantidad = $4,
		    peso_total = $5, observaciones = $6, recibido = $7
		WHERE id_pedido = $8
		RETURNING %s`, s.t.order, orderColumns)

	return classify(s.db.GetContext(ctx, order, query,
		order.SupplierID, order.ProductID, order.DeliveryDate, order.Quantity,
		order.TotalWeight, order.Notes, order.Fulfilled, order.ID))
}

// DeleteOrder removes an order by id
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, s.t.order, "id_pedido", id)
}
