package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Insumo is a raw material consumed by recipes (flour, cheese, etc.).
// StockActual is the only field the sale path mutates; everything else is
// managed through the catalog endpoints.
type Insumo struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string    `gorm:"index;not null"`
	Descripcion   *string
	UnidadMedida  string          `gorm:"not null"` // "kg", "litros", "unidades"
	StockActual   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	StockMinimo   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides GORM's default pluralization for Spanish names.
func (Insumo) TableName() string { return "insumos" }
