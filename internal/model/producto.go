package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable item. When RecetaID is set the sale path consumes
// insumos through the recipe graph (CantidadReceta recipe units per product
// unit); otherwise Stock is the direct counter and is decremented as-is.
type Producto struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string    `gorm:"index;not null"`
	Descripcion    string
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioPorBulto decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Disponible     bool            `gorm:"not null;default:true"`
	CategoriaID    *uuid.UUID      `gorm:"type:uuid;index"`
	RecetaID       *uuid.UUID      `gorm:"type:uuid;index"`
	CantidadReceta decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1"`
	Stock          *int
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Receta    *Receta    `gorm:"foreignKey:RecetaID"`
}

func (Producto) TableName() string { return "productos" }
