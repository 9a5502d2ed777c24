package repository

import (
	"context"

	"comoencasa/internal/dto"
	"comoencasa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
type ProductoRepository interface {
	Crear(ctx context.Context, p *model.Producto) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Actualizar(ctx context.Context, p *model.Producto) error
	Eliminar(ctx context.Context, id uuid.UUID) error

	// Used inside the direct-stock sale transaction. LockPorIDTx takes the
	// row lock so the stock check and the decrement see the same value;
	// validating against an earlier read would let two concurrent sales
	// drive the counter negative.
	LockPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error

	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Crear(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").Preload("Receta").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) Listar(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Categoria").Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Actualizar(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Eliminar removes the product row. The catalog contract is a hard delete;
// availability toggles go through Actualizar(Disponible).
func (r *productoRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Producto{}, "id = ?", id).Error
}

func (r *productoRepo) LockPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, traducirErrorConcurrencia(err)
	}
	return &p, nil
}

func (r *productoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	err := tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock - ?", cantidad)).Error
	return traducirErrorConcurrencia(err)
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
