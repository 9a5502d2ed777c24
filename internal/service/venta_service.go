package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"
	"comoencasa/internal/model"
	"comoencasa/internal/repository"
	"comoencasa/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService is the sale entrypoint: it routes a confirmed order line to
// the recipe consumption path or the direct stock counter.
type VentaService interface {
	ConfirmarVenta(ctx context.Context, req dto.ConfirmarVentaRequest) (*dto.ConfirmarVentaResponse, error)
}

type ventaService struct {
	productoRepo   repository.ProductoRepository
	insumoRepo     repository.InsumoRepository
	recetaRepo     repository.RecetaRepository
	movimientoRepo repository.MovimientoInsumoRepository
	dispatcher     *worker.Dispatcher
}

func NewVentaService(
	productoRepo repository.ProductoRepository,
	insumoRepo repository.InsumoRepository,
	recetaRepo repository.RecetaRepository,
	movimientoRepo repository.MovimientoInsumoRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		productoRepo:   productoRepo,
		insumoRepo:     insumoRepo,
		recetaRepo:     recetaRepo,
		movimientoRepo: movimientoRepo,
		dispatcher:     dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── ConfirmarVenta ────────────────────────────────────────────────────────────
// Recipe-backed products run a two-phase consumption:
//   1. Dry run: walk the recipe subtree and total the needed quantity per
//      insumo (multiplied through every nesting level and by the product's
//      consumption factor).
//   2. In ONE transaction: lock every touched insumo row FOR UPDATE in
//      ascending id order, re-check stock against the locked rows, then apply
//      every deduction and record the audit movimientos. Any shortfall aborts
//      the whole transaction — no insumo is ever partially deducted.
// Products without a recipe decrement their own stock counter, guarded by the
// same reject-on-insufficient policy.

func (s *ventaService) ConfirmarVenta(ctx context.Context, req dto.ConfirmarVentaRequest) (*dto.ConfirmarVentaResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	if req.Cantidad.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("la cantidad vendida debe ser mayor a cero")
	}

	producto, err := s.productoRepo.ObtenerPorID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bom.NotFoundError{Entidad: "producto", ID: productoID}
		}
		return nil, err
	}

	resp := &dto.ConfirmarVentaResponse{
		ProductoID: producto.ID.String(),
		Producto:   producto.Nombre,
		Cantidad:   req.Cantidad,
	}

	if producto.RecetaID != nil {
		consumos, err := s.consumirReceta(ctx, *producto.RecetaID, producto, req.Cantidad)
		if err != nil {
			return nil, err
		}
		resp.Consumos = consumos
		s.encolarAlertas(ctx, consumos)
		return resp, nil
	}

	return s.venderStockDirecto(ctx, producto, req.Cantidad, resp)
}

func (s *ventaService) consumirReceta(ctx context.Context, recetaID uuid.UUID, producto *model.Producto, cantidad decimal.Decimal) ([]dto.ConsumoInsumoResponse, error) {
	// The dry run reads edges only, so it cannot tell a deleted receta from
	// one with no ingredients. A dangling reference must fail, not no-op.
	if _, err := s.recetaRepo.ObtenerPorID(ctx, recetaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bom.NotFoundError{Entidad: "receta", ID: recetaID}
		}
		return nil, err
	}

	// Phase 1: read-only dry run of the whole subtree.
	totalReceta := producto.CantidadReceta.Mul(cantidad)
	needs, err := bom.Requirements(ctx, s.recetaRepo, recetaID, totalReceta)
	if err != nil {
		return nil, err
	}
	if len(needs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(needs))
	for id := range needs {
		ids = append(ids, id)
	}
	// Fixed lock order across all concurrent consumptions.
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var consumos []dto.ConsumoInsumoResponse
	txErr := runTx(ctx, s.insumoRepo.DB(), func(tx *gorm.DB) error {
		insumos, err := s.insumoRepo.LockPorIDsTx(tx, ids)
		if err != nil {
			return err
		}
		porID := make(map[uuid.UUID]*model.Insumo, len(insumos))
		for i := range insumos {
			porID[insumos[i].ID] = &insumos[i]
		}

		// Phase 2: validate every insumo against its locked row first.
		for _, id := range ids {
			insumo, ok := porID[id]
			if !ok {
				return &bom.NotFoundError{Entidad: "insumo", ID: id}
			}
			if insumo.StockActual.LessThan(needs[id]) {
				return &bom.InsufficientStockError{
					InsumoID: id,
					Nombre:   insumo.Nombre,
					Faltante: needs[id].Sub(insumo.StockActual),
				}
			}
		}

		// Only then commit the deductions.
		productoRef := producto.ID
		for _, id := range ids {
			insumo := porID[id]
			necesaria := needs[id]
			if err := s.insumoRepo.DescontarStockTx(tx, id, necesaria); err != nil {
				return err
			}
			nuevo := insumo.StockActual.Sub(necesaria)
			mov := &model.MovimientoInsumo{
				InsumoID:      id,
				Tipo:          "venta",
				Cantidad:      necesaria.Neg(),
				StockAnterior: insumo.StockActual,
				StockNuevo:    nuevo,
				Motivo:        fmt.Sprintf("Venta de %s", producto.Nombre),
				ReferenciaID:  &productoRef,
			}
			if err := s.movimientoRepo.CrearTx(tx, mov); err != nil {
				return err
			}
			consumos = append(consumos, dto.ConsumoInsumoResponse{
				InsumoID:      id.String(),
				Nombre:        insumo.Nombre,
				Cantidad:      necesaria,
				StockRestante: nuevo,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return consumos, nil
}

func (s *ventaService) venderStockDirecto(ctx context.Context, producto *model.Producto, cantidad decimal.Decimal, resp *dto.ConfirmarVentaResponse) (*dto.ConfirmarVentaResponse, error) {
	// Products without recipe nor counter have nothing to deduct.
	if producto.Stock == nil {
		return resp, nil
	}

	entera := int(cantidad.IntPart())
	var restante int
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		// Validate against the locked row, not the read that routed us
		// here; a concurrent sale may have drained the counter in between.
		fila, err := s.productoRepo.LockPorIDTx(tx, producto.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &bom.NotFoundError{Entidad: "producto", ID: producto.ID}
			}
			return err
		}
		disponible := 0
		if fila.Stock != nil {
			disponible = *fila.Stock
		}
		if disponible < entera {
			return &bom.InsufficientStockError{
				InsumoID: producto.ID,
				Nombre:   producto.Nombre,
				Faltante: decimal.NewFromInt(int64(entera - disponible)),
			}
		}
		if err := s.productoRepo.DescontarStockTx(tx, producto.ID, entera); err != nil {
			return err
		}
		restante = disponible - entera
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp.Stock = &restante
	return resp, nil
}

// encolarAlertas enqueues a low-stock alert job for every insumo the sale
// left at or below its minimum. Best effort — a sale never fails because the
// alert queue is down.
func (s *ventaService) encolarAlertas(ctx context.Context, consumos []dto.ConsumoInsumoResponse) {
	if s.dispatcher == nil {
		return
	}
	for _, c := range consumos {
		id, err := uuid.Parse(c.InsumoID)
		if err != nil {
			continue
		}
		insumo, err := s.insumoRepo.ObtenerPorID(ctx, id)
		if err != nil || insumo.StockActual.GreaterThan(insumo.StockMinimo) {
			continue
		}
		_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
			InsumoID:     insumo.ID.String(),
			Nombre:       insumo.Nombre,
			StockActual:  insumo.StockActual.String(),
			StockMinimo:  insumo.StockMinimo.String(),
			UnidadMedida: insumo.UnidadMedida,
		})
	}
}
