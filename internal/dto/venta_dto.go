package dto

import "github.com/shopspring/decimal"

// ConfirmarVentaRequest is the sale trigger sent by the pedidos service:
// a confirmed order line for a product.
type ConfirmarVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
}

// ConsumoInsumoResponse describes one insumo deducted by a confirmed sale.
type ConsumoInsumoResponse struct {
	InsumoID      string          `json:"insumo_id"`
	Nombre        string          `json:"nombre"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockRestante decimal.Decimal `json:"stock_restante"`
}

type ConfirmarVentaResponse struct {
	ProductoID string                  `json:"producto_id"`
	Producto   string                  `json:"producto"`
	Cantidad   decimal.Decimal         `json:"cantidad"`
	Consumos   []ConsumoInsumoResponse `json:"consumos,omitempty"`
	Stock      *int                    `json:"stock,omitempty"` // direct-stock path only
}
