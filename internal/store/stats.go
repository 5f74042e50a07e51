package store

import (
	"context"
	"fmt"
)

func (s *Store) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, classify(err)
	}
	return total, nil
}

// CountProducts counts catalog products
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	return s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.t.product))
}

// CountSuppliers counts suppliers, active or not
func (s *Store) CountSuppliers(ctx context.Context) (int, error) {
	return s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.t.supplier))
}

// CountWarehouses counts warehouses
func (s *Store) CountWarehouses(ctx context.Context) (int, error) {
	return s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.t.warehouse))
}

// CountOrders counts orders; a non-nil fulfilled restricts to that state
func (s *Store) CountOrders(ctx context.Context, fulfilled *bool) (int, error) {
	if fulfilled == nil {
		return s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.t.order))
	}
	return s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE recibido = $1", s.t.order), *fulfilled)
}
