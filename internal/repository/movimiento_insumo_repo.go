package repository

import (
	"context"

	"comoencasa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoInsumoRepository persists the stock movement audit trail.
type MovimientoInsumoRepository interface {
	// CrearTx records a movement inside the sale transaction.
	CrearTx(tx *gorm.DB, m *model.MovimientoInsumo) error
	Crear(ctx context.Context, m *model.MovimientoInsumo) error
	Listar(ctx context.Context, insumoID *uuid.UUID, limit int) ([]model.MovimientoInsumo, error)
}

type movimientoInsumoRepo struct{ db *gorm.DB }

func NewMovimientoInsumoRepository(db *gorm.DB) MovimientoInsumoRepository {
	return &movimientoInsumoRepo{db: db}
}

func (r *movimientoInsumoRepo) CrearTx(tx *gorm.DB, m *model.MovimientoInsumo) error {
	return tx.Create(m).Error
}

func (r *movimientoInsumoRepo) Crear(ctx context.Context, m *model.MovimientoInsumo) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoInsumoRepo) Listar(ctx context.Context, insumoID *uuid.UUID, limit int) ([]model.MovimientoInsumo, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Preload("Insumo").Order("created_at DESC").Limit(limit)
	if insumoID != nil {
		q = q.Where("insumo_id = ?", *insumoID)
	}
	var movimientos []model.MovimientoInsumo
	err := q.Find(&movimientos).Error
	return movimientos, err
}
