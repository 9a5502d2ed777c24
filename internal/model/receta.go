package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receta is a bill of materials: the insumos and sub-recipes (with per-unit
// quantities) needed to produce one unit of the recipe.
type Receta struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Insumos    []RecetaInsumo    `gorm:"foreignKey:RecetaID"`
	SubRecetas []RecetaSubReceta `gorm:"foreignKey:RecetaPadreID"`
}

func (Receta) TableName() string { return "recetas" }

// RecetaInsumo is a Receta→Insumo edge: Cantidad insumo units are consumed
// per recipe unit. One row per (receta, insumo) pair.
type RecetaInsumo struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecetaID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_receta_insumo"`
	InsumoID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_receta_insumo"`
	Cantidad decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Insumo *Insumo `gorm:"foreignKey:InsumoID"`
}

func (RecetaInsumo) TableName() string { return "receta_insumos" }

// RecetaSubReceta is a Receta→Receta edge: the parent consumes Cantidad units
// of the child recipe per parent unit. The relation must stay acyclic; edge
// creation runs a reachability check before inserting.
type RecetaSubReceta struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecetaPadreID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_padre_hija"`
	RecetaHijaID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_padre_hija"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Hija *Receta `gorm:"foreignKey:RecetaHijaID"`
}

func (RecetaSubReceta) TableName() string { return "receta_sub_recetas" }
