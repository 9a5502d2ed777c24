package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoInsumo registra cada cambio de stock de un insumo.
// Se crea automáticamente al confirmar una venta o al ajustar stock a mano.
type MovimientoInsumo struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InsumoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"not null"` // "venta" | "ajuste_manual"
	Cantidad      decimal.Decimal `gorm:"type:decimal(10,2);not null"` // positive = entrada, negative = salida
	StockAnterior decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // producto_id when Tipo = "venta"
	CreatedAt     time.Time

	Insumo *Insumo `gorm:"foreignKey:InsumoID"`
}

// TableName overrides GORM's default pluralization (movimiento_insumos → movimientos_insumo).
func (MovimientoInsumo) TableName() string { return "movimientos_insumo" }
