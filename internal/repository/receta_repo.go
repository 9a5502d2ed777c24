package repository

import (
	"context"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"
	"comoencasa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecetaRepository defines data access for recipes and their edges.
// It satisfies bom.Graph, so the traversal code reads edges straight from it.
type RecetaRepository interface {
	// Crear persists the receta and its edge rows in one transaction.
	Crear(ctx context.Context, r *model.Receta, insumos []model.RecetaInsumo, subs []model.RecetaSubReceta) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Receta, error)
	Buscar(ctx context.Context, filter dto.RecetaFilter) ([]model.Receta, error)
	Listar(ctx context.Context) ([]model.Receta, error)
	// Actualizar replaces the edge set wholesale (delete old rows, insert new).
	Actualizar(ctx context.Context, r *model.Receta, insumos []model.RecetaInsumo, subs []model.RecetaSubReceta) error
	Eliminar(ctx context.Context, id uuid.UUID) error

	// ContarReferencias counts rows still pointing at the receta: productos
	// sold through it plus parent recetas using it as sub-receta. Deletion
	// is refused while any remain, so sales never hit a dangling id.
	ContarReferencias(ctx context.Context, id uuid.UUID) (int64, error)

	// bom.Graph
	DirectInsumoEdges(ctx context.Context, recetaID uuid.UUID) ([]bom.InsumoEdge, error)
	DirectSubRecetaEdges(ctx context.Context, recetaID uuid.UUID) ([]bom.SubRecetaEdge, error)

	DB() *gorm.DB
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) Crear(ctx context.Context, receta *model.Receta, insumos []model.RecetaInsumo, subs []model.RecetaSubReceta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receta).Error; err != nil {
			return err
		}
		return crearEdges(tx, receta.ID, insumos, subs)
	})
}

func (r *recetaRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Receta, error) {
	var receta model.Receta
	err := r.db.WithContext(ctx).
		Preload("Insumos.Insumo").
		Preload("SubRecetas.Hija").
		First(&receta, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &receta, nil
}

func (r *recetaRepo) Buscar(ctx context.Context, filter dto.RecetaFilter) ([]model.Receta, error) {
	q := r.db.WithContext(ctx).
		Preload("Insumos.Insumo").
		Preload("SubRecetas.Hija")
	if filter.ID != "" {
		q = q.Where("id = ?", filter.ID)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	var recetas []model.Receta
	err := q.Order("nombre ASC").Find(&recetas).Error
	return recetas, err
}

func (r *recetaRepo) Listar(ctx context.Context) ([]model.Receta, error) {
	var recetas []model.Receta
	err := r.db.WithContext(ctx).
		Preload("Insumos.Insumo").
		Preload("SubRecetas.Hija").
		Order("nombre ASC").
		Find(&recetas).Error
	return recetas, err
}

func (r *recetaRepo) Actualizar(ctx context.Context, receta *model.Receta, insumos []model.RecetaInsumo, subs []model.RecetaSubReceta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Receta{}).Where("id = ?", receta.ID).Updates(map[string]interface{}{
			"nombre":      receta.Nombre,
			"descripcion": receta.Descripcion,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("receta_id = ?", receta.ID).Delete(&model.RecetaInsumo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("receta_padre_id = ?", receta.ID).Delete(&model.RecetaSubReceta{}).Error; err != nil {
			return err
		}
		return crearEdges(tx, receta.ID, insumos, subs)
	})
}

func (r *recetaRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Cascade edges in both directions before removing the node.
		if err := tx.Where("receta_id = ?", id).Delete(&model.RecetaInsumo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("receta_padre_id = ? OR receta_hija_id = ?", id, id).Delete(&model.RecetaSubReceta{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Receta{}, "id = ?", id).Error
	})
}

func (r *recetaRepo) ContarReferencias(ctx context.Context, id uuid.UUID) (int64, error) {
	var productos, padres int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("receta_id = ?", id).
		Count(&productos).Error
	if err != nil {
		return 0, err
	}
	err = r.db.WithContext(ctx).Model(&model.RecetaSubReceta{}).
		Where("receta_hija_id = ?", id).
		Count(&padres).Error
	if err != nil {
		return 0, err
	}
	return productos + padres, nil
}

func (r *recetaRepo) DirectInsumoEdges(ctx context.Context, recetaID uuid.UUID) ([]bom.InsumoEdge, error) {
	var rows []model.RecetaInsumo
	if err := r.db.WithContext(ctx).Where("receta_id = ?", recetaID).Find(&rows).Error; err != nil {
		return nil, err
	}
	edges := make([]bom.InsumoEdge, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, bom.InsumoEdge{InsumoID: row.InsumoID, Cantidad: row.Cantidad})
	}
	return edges, nil
}

func (r *recetaRepo) DirectSubRecetaEdges(ctx context.Context, recetaID uuid.UUID) ([]bom.SubRecetaEdge, error) {
	var rows []model.RecetaSubReceta
	if err := r.db.WithContext(ctx).Where("receta_padre_id = ?", recetaID).Find(&rows).Error; err != nil {
		return nil, err
	}
	edges := make([]bom.SubRecetaEdge, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, bom.SubRecetaEdge{RecetaID: row.RecetaHijaID, Cantidad: row.Cantidad})
	}
	return edges, nil
}

func (r *recetaRepo) DB() *gorm.DB { return r.db }

func crearEdges(tx *gorm.DB, recetaID uuid.UUID, insumos []model.RecetaInsumo, subs []model.RecetaSubReceta) error {
	for i := range insumos {
		insumos[i].RecetaID = recetaID
		if err := tx.Create(&insumos[i]).Error; err != nil {
			return err
		}
	}
	for i := range subs {
		subs[i].RecetaPadreID = recetaID
		if err := tx.Create(&subs[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
