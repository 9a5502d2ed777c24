package dto

import "github.com/shopspring/decimal"

// ─── Write DTOs ──────────────────────────────────────────────────────────────
// Edges are replaced wholesale on update, mirroring the catalog contract:
// the request carries the complete new edge set.

type RecetaInsumoData struct {
	InsumoID string          `json:"insumo_id" validate:"required,uuid"`
	Cantidad decimal.Decimal `json:"cantidad"  validate:"min=0"`
}

type RecetaSubRecetaData struct {
	RecetaID string          `json:"receta_id" validate:"required,uuid"`
	Cantidad decimal.Decimal `json:"cantidad"  validate:"min=0"`
}

type CrearRecetaRequest struct {
	Nombre         string                `json:"nombre" validate:"required,min=2,max=120"`
	Descripcion    *string               `json:"descripcion"`
	InsumosData    []RecetaInsumoData    `json:"insumos_data"    validate:"dive"`
	SubRecetasData []RecetaSubRecetaData `json:"sub_recetas_data" validate:"dive"`
}

type ActualizarRecetaRequest struct {
	Nombre         *string               `json:"nombre" validate:"omitempty,min=2,max=120"`
	Descripcion    *string               `json:"descripcion"`
	InsumosData    []RecetaInsumoData    `json:"insumos_data"    validate:"dive"`
	SubRecetasData []RecetaSubRecetaData `json:"sub_recetas_data" validate:"dive"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type RecetaFilter struct {
	ID     string `form:"id"`
	Nombre string `form:"nombre"`
}

// ─── Read DTOs ───────────────────────────────────────────────────────────────

type RecetaInsumoResponse struct {
	Insumo   InsumoResponse  `json:"insumo"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

type RecetaSubRecetaResponse struct {
	RecetaID string          `json:"receta_id"`
	Nombre   string          `json:"nombre"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

type RecetaResponse struct {
	ID          string                    `json:"id"`
	Nombre      string                    `json:"nombre"`
	Descripcion *string                   `json:"descripcion"`
	Insumos     []RecetaInsumoResponse    `json:"insumos"`
	SubRecetas  []RecetaSubRecetaResponse `json:"sub_recetas"`
}

// CostoRecetaResponse is returned by the costing query: the recursively
// computed cost of producing one unit of the recipe.
type CostoRecetaResponse struct {
	RecetaID string          `json:"receta_id"`
	Nombre   string          `json:"nombre"`
	Costo    decimal.Decimal `json:"costo"`
}
