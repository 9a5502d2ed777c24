package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre         string           `json:"nombre"           validate:"required,min=2,max=120"`
	Descripcion    string           `json:"descripcion"`
	PrecioUnitario decimal.Decimal  `json:"precio_unitario"  validate:"min=0"`
	PrecioPorBulto decimal.Decimal  `json:"precio_por_bulto" validate:"min=0"`
	Disponible     *bool            `json:"disponible"`
	CategoriaID    *string          `json:"categoria_id"     validate:"omitempty,uuid"`
	RecetaID       *string          `json:"receta_id"        validate:"omitempty,uuid"`
	CantidadReceta *decimal.Decimal `json:"cantidad_receta"  validate:"omitempty,gt=0"`
	Stock          *int             `json:"stock"            validate:"omitempty,min=0"`
}

type ActualizarProductoRequest struct {
	Nombre         *string          `json:"nombre"           validate:"omitempty,min=2,max=120"`
	Descripcion    *string          `json:"descripcion"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"  validate:"omitempty,min=0"`
	PrecioPorBulto *decimal.Decimal `json:"precio_por_bulto" validate:"omitempty,min=0"`
	Disponible     *bool            `json:"disponible"`
	CategoriaID    *string          `json:"categoria_id"     validate:"omitempty,uuid"`
	RecetaID       *string          `json:"receta_id"        validate:"omitempty,uuid"`
	CantidadReceta *decimal.Decimal `json:"cantidad_receta"  validate:"omitempty,gt=0"`
	Stock          *int             `json:"stock"            validate:"omitempty,min=0"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Descripcion    string          `json:"descripcion"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	PrecioPorBulto decimal.Decimal `json:"precio_por_bulto"`
	Disponible     bool            `json:"disponible"`
	Categoria      *string         `json:"categoria"`
	RecetaID       *string         `json:"receta_id"`
	CantidadReceta decimal.Decimal `json:"cantidad_receta"`
	Stock          *int            `json:"stock"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
