package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearInsumoRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=2,max=120"`
	Descripcion   *string         `json:"descripcion"`
	UnidadMedida  string          `json:"unidad_medida"  validate:"required"`
	StockActual   decimal.Decimal `json:"stock_actual"   validate:"min=0"`
	StockMinimo   decimal.Decimal `json:"stock_minimo"   validate:"min=0"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
}

type ActualizarInsumoRequest struct {
	Nombre        *string          `json:"nombre"         validate:"omitempty,min=2,max=120"`
	Descripcion   *string          `json:"descripcion"`
	UnidadMedida  *string          `json:"unidad_medida"`
	StockMinimo   *decimal.Decimal `json:"stock_minimo"   validate:"omitempty,min=0"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario" validate:"omitempty,min=0"`
}

// AjustarStockRequest applies a manual delta (positive or negative) to an
// insumo's stock, recording an audit movimiento.
type AjustarStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type InsumoFilter struct {
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InsumoResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Descripcion   *string         `json:"descripcion"`
	UnidadMedida  string          `json:"unidad_medida"`
	StockActual   decimal.Decimal `json:"stock_actual"`
	StockMinimo   decimal.Decimal `json:"stock_minimo"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Activo        bool            `json:"activo"`
}

type InsumoListResponse struct {
	Data  []InsumoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// AlertaStockResponse flags an insumo at or below its minimum stock.
type AlertaStockResponse struct {
	InsumoID     string          `json:"insumo_id"`
	Nombre       string          `json:"nombre"`
	StockActual  decimal.Decimal `json:"stock_actual"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	UnidadMedida string          `json:"unidad_medida"`
}

type MovimientoInsumoResponse struct {
	ID            string          `json:"id"`
	InsumoID      string          `json:"insumo_id"`
	Insumo        string          `json:"insumo"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo"`
	CreatedAt     string          `json:"created_at"`
}
