package models

import "github.com/shopspring/decimal"

// Warehouse represents a storage location (bodega)
type Warehouse struct {
	ID   int64  `db:"id_bodega" json:"id"`
	Code string `db:"codigo" json:"code"`
}

// Supplier represents a supplier identified by national id (cedula)
type Supplier struct {
	NationalID  string  `db:"cedula" json:"national_id"`
	Name        string  `db:"nombre" json:"name"`
	Description *string `db:"descripcion" json:"description,omitempty"`
	Phone       *string `db:"telefono" json:"phone,omitempty"`
	Email       *string `db:"correo" json:"email,omitempty"`
	City        *string `db:"ciudad" json:"city,omitempty"`
	Locality    *string `db:"vereda" json:"locality,omitempty"`
	Notes       *string `db:"observaciones" json:"notes,omitempty"`
	Active      bool    `db:"activo" json:"active"`
}

// Product represents a catalog product supplied by one supplier
type Product struct {
	ID          string `db:"id_producto" json:"id"`
	Description string `db:"descripcion" json:"description"`
	SupplierID  string `db:"cedula" json:"supplier_id"`
}

// ProductView is a product with its supplier name resolved
type ProductView struct {
	Product
	SupplierName string `db:"nombre_proveedor" json:"supplier_name"`
}

// InventoryLot is one quantity of a product held in one warehouse
type InventoryLot struct {
	ID           int64           `db:"id_inventario" json:"id"`
	ProductID    string          `db:"id_producto" json:"product_id"`
	WarehouseID  int64           `db:"id_bodega" json:"warehouse_id"`
	EntryDate    Date            `db:"fecha_entrada" json:"entry_date"`
	ExitDate     *Date           `db:"fecha_salida" json:"exit_date"`
	Humidity     decimal.Decimal `db:"humedad" json:"humidity"`
	Fermentation decimal.Decimal `db:"fermentacion" json:"fermentation"`
}

// InventoryLotView is a lot with product description and warehouse code resolved
type InventoryLotView struct {
	InventoryLot
	ProductDescription *string `db:"producto_desc" json:"product_description"`
	WarehouseCode      *string `db:"bodega_codigo" json:"warehouse_code"`
}

// Order represents a purchase order (pedido) placed with a supplier
type Order struct {
	ID           int64               `db:"id_pedido" json:"id"`
	SupplierID   string              `db:"cedula" json:"supplier_id"`
	ProductID    string              `db:"id_producto" json:"product_id"`
	DeliveryDate Date                `db:"fecha_entrega" json:"delivery_date"`
	Quantity     int                 `db:"cantidad" json:"quantity"`
	TotalWeight  decimal.NullDecimal `db:"peso_total" json:"total_weight"`
	Notes        *string             `db:"observaciones" json:"notes,omitempty"`
	Fulfilled    bool                `db:"recibido" json:"fulfilled"`
}

// OrderView is an order with supplier name and product description resolved
type OrderView struct {
	Order
	SupplierName       *string `db:"proveedor_nombre" json:"supplier_name"`
	ProductDescription *string `db:"producto_desc" json:"product_description"`
}

// DashboardStats is the flat set of numbers rendered by the dashboard
type DashboardStats struct {
	TotalProducts   int     `json:"total_products"`
	ActiveOrders    int     `json:"active_orders"`
	TotalOrders     int     `json:"total_orders"`
	TotalSuppliers  int     `json:"total_suppliers"`
	TotalWarehouses int     `json:"total_warehouses"`
	FulfillmentRate float64 `json:"fulfillment_rate"`
}

// MissingSupplierName is shown when a product points at a supplier that no longer resolves
const MissingSupplierName = "Supplier not found"
