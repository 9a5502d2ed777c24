package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"
	"comoencasa/internal/model"
	"comoencasa/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InsumoService interface {
	Crear(ctx context.Context, req dto.CrearInsumoRequest) (*dto.InsumoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.InsumoResponse, error)
	Listar(ctx context.Context, filter dto.InsumoFilter) (*dto.InsumoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarInsumoRequest) (*dto.InsumoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.InsumoResponse, error)
	Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	Movimientos(ctx context.Context, insumoID *uuid.UUID, limit int) ([]dto.MovimientoInsumoResponse, error)
}

type insumoService struct {
	repo           repository.InsumoRepository
	movimientoRepo repository.MovimientoInsumoRepository
}

func NewInsumoService(repo repository.InsumoRepository, movimientoRepo repository.MovimientoInsumoRepository) InsumoService {
	return &insumoService{repo: repo, movimientoRepo: movimientoRepo}
}

func (s *insumoService) Crear(ctx context.Context, req dto.CrearInsumoRequest) (*dto.InsumoResponse, error) {
	insumo := &model.Insumo{
		Nombre:        req.Nombre,
		Descripcion:   req.Descripcion,
		UnidadMedida:  req.UnidadMedida,
		StockActual:   req.StockActual,
		StockMinimo:   req.StockMinimo,
		CostoUnitario: req.CostoUnitario,
		Activo:        true,
	}
	if err := s.repo.Crear(ctx, insumo); err != nil {
		return nil, err
	}
	return insumoToResponse(insumo), nil
}

func (s *insumoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.InsumoResponse, error) {
	insumo, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return insumoToResponse(insumo), nil
}

func (s *insumoService) Listar(ctx context.Context, filter dto.InsumoFilter) (*dto.InsumoListResponse, error) {
	insumos, total, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.InsumoListResponse{
		Data:  make([]dto.InsumoResponse, 0, len(insumos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range insumos {
		resp.Data = append(resp.Data, *insumoToResponse(&insumos[i]))
	}
	return resp, nil
}

func (s *insumoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarInsumoRequest) (*dto.InsumoResponse, error) {
	insumo, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		insumo.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		insumo.Descripcion = req.Descripcion
	}
	if req.UnidadMedida != nil {
		insumo.UnidadMedida = *req.UnidadMedida
	}
	if req.StockMinimo != nil {
		insumo.StockMinimo = *req.StockMinimo
	}
	if req.CostoUnitario != nil {
		insumo.CostoUnitario = *req.CostoUnitario
	}
	if err := s.repo.Actualizar(ctx, insumo); err != nil {
		return nil, err
	}
	return insumoToResponse(insumo), nil
}

func (s *insumoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	return s.repo.Desactivar(ctx, id)
}

// AjustarStock applies a manual delta and records the movimiento in the same
// transaction. Adjustments that would leave negative stock are rejected.
func (s *insumoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.InsumoResponse, error) {
	var actualizado *model.Insumo
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		insumos, err := s.repo.LockPorIDsTx(tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if len(insumos) == 0 {
			return &bom.NotFoundError{Entidad: "insumo", ID: id}
		}
		insumo := insumos[0]

		nuevo := insumo.StockActual.Add(req.Delta)
		if nuevo.IsNegative() {
			return &bom.InsufficientStockError{
				InsumoID: id,
				Nombre:   insumo.Nombre,
				Faltante: nuevo.Neg(),
			}
		}
		if err := s.repo.DescontarStockTx(tx, id, req.Delta.Neg()); err != nil {
			return err
		}
		mov := &model.MovimientoInsumo{
			InsumoID:      id,
			Tipo:          "ajuste_manual",
			Cantidad:      req.Delta,
			StockAnterior: insumo.StockActual,
			StockNuevo:    nuevo,
			Motivo:        req.Motivo,
		}
		if err := s.movimientoRepo.CrearTx(tx, mov); err != nil {
			return err
		}
		insumo.StockActual = nuevo
		actualizado = &insumo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return insumoToResponse(actualizado), nil
}

func (s *insumoService) Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	insumos, err := s.repo.ListarBajoMinimo(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(insumos))
	for _, i := range insumos {
		alertas = append(alertas, dto.AlertaStockResponse{
			InsumoID:     i.ID.String(),
			Nombre:       i.Nombre,
			StockActual:  i.StockActual,
			StockMinimo:  i.StockMinimo,
			UnidadMedida: i.UnidadMedida,
		})
	}
	return alertas, nil
}

func (s *insumoService) Movimientos(ctx context.Context, insumoID *uuid.UUID, limit int) ([]dto.MovimientoInsumoResponse, error) {
	movimientos, err := s.movimientoRepo.Listar(ctx, insumoID, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoInsumoResponse, 0, len(movimientos))
	for _, m := range movimientos {
		item := dto.MovimientoInsumoResponse{
			ID:            m.ID.String(),
			InsumoID:      m.InsumoID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
		if m.Insumo != nil {
			item.Insumo = m.Insumo.Nombre
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *insumoService) buscar(ctx context.Context, id uuid.UUID) (*model.Insumo, error) {
	insumo, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bom.NotFoundError{Entidad: "insumo", ID: id}
		}
		return nil, fmt.Errorf("buscando insumo: %w", err)
	}
	return insumo, nil
}

func insumoToResponse(i *model.Insumo) *dto.InsumoResponse {
	return &dto.InsumoResponse{
		ID:            i.ID.String(),
		Nombre:        i.Nombre,
		Descripcion:   i.Descripcion,
		UnidadMedida:  i.UnidadMedida,
		StockActual:   i.StockActual,
		StockMinimo:   i.StockMinimo,
		CostoUnitario: i.CostoUnitario,
		Activo:        i.Activo,
	}
}
