package repository

import (
	"context"
	"errors"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"
	"comoencasa/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsumoRepository defines the data access contract for raw materials.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs. It also satisfies
// bom.CostLookup so the cost resolver can read unit costs directly.
type InsumoRepository interface {
	Crear(ctx context.Context, i *model.Insumo) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Insumo, error)
	Listar(ctx context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error)
	Actualizar(ctx context.Context, i *model.Insumo) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	ListarBajoMinimo(ctx context.Context) ([]model.Insumo, error)

	// CostoUnitario resolves the current unit cost (bom.CostLookup).
	CostoUnitario(ctx context.Context, insumoID uuid.UUID) (decimal.Decimal, error)

	// Used inside the consumption transaction — callers must pass the tx.
	// LockPorIDsTx acquires row locks in ascending id order so two concurrent
	// consumptions sharing insumos never deadlock.
	LockPorIDsTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Insumo, error)
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error

	// AjustarStock applies a manual delta outside the sale path.
	AjustarStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type insumoRepo struct{ db *gorm.DB }

func NewInsumoRepository(db *gorm.DB) InsumoRepository { return &insumoRepo{db: db} }

func (r *insumoRepo) Crear(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *insumoRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *insumoRepo) Listar(ctx context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error) {
	var insumos []model.Insumo
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Insumo{}).Where("activo = true")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&insumos).Error
	return insumos, total, err
}

func (r *insumoRepo) Actualizar(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *insumoRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Insumo{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *insumoRepo) ListarBajoMinimo(ctx context.Context) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock_actual <= stock_minimo").
		Order("nombre ASC").
		Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) CostoUnitario(ctx context.Context, insumoID uuid.UUID) (decimal.Decimal, error) {
	i, err := r.ObtenerPorID(ctx, insumoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, &bom.NotFoundError{Entidad: "insumo", ID: insumoID}
		}
		return decimal.Zero, err
	}
	return i.CostoUnitario, nil
}

func (r *insumoRepo) LockPorIDsTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&insumos).Error
	if err != nil {
		return nil, traducirErrorConcurrencia(err)
	}
	return insumos, nil
}

func (r *insumoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error {
	err := tx.Model(&model.Insumo{}).Where("id = ?", id).
		Update("stock_actual", gorm.Expr("stock_actual - ?", cantidad)).Error
	return traducirErrorConcurrencia(err)
}

func (r *insumoRepo) AjustarStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Insumo{}).
		Where("id = ? AND activo = true", id).
		Update("stock_actual", gorm.Expr("stock_actual + ?", delta)).Error
}

func (r *insumoRepo) DB() *gorm.DB { return r.db }

// traducirErrorConcurrencia maps Postgres deadlock / serialization / lock
// failures onto bom.ConcurrencyConflictError so callers can retry.
func traducirErrorConcurrencia(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization_failure, deadlock_detected, lock_not_available
			return &bom.ConcurrencyConflictError{Err: err}
		}
	}
	return err
}
