package service

import (
	"context"
	"errors"
	"fmt"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"
	"comoencasa/internal/infra"
	"comoencasa/internal/model"
	"comoencasa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrSolicitudInvalida marks request-level validation failures (duplicate
// edges, self references, zero quantities). Handlers map it to 422.
var ErrSolicitudInvalida = errors.New("solicitud inválida")

type RecetaService interface {
	Crear(ctx context.Context, req dto.CrearRecetaRequest) (*dto.RecetaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.RecetaResponse, error)
	Buscar(ctx context.Context, filter dto.RecetaFilter) ([]dto.RecetaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarRecetaRequest) (*dto.RecetaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	CalcularCosto(ctx context.Context, id uuid.UUID) (*dto.CostoRecetaResponse, error)
	GenerarCostoPDF(ctx context.Context, id uuid.UUID) (string, error)
}

type recetaService struct {
	repo       repository.RecetaRepository
	insumoRepo repository.InsumoRepository
	pdfPath    string
}

func NewRecetaService(repo repository.RecetaRepository, insumoRepo repository.InsumoRepository, pdfPath string) RecetaService {
	return &recetaService{repo: repo, insumoRepo: insumoRepo, pdfPath: pdfPath}
}

func (s *recetaService) Crear(ctx context.Context, req dto.CrearRecetaRequest) (*dto.RecetaResponse, error) {
	// A brand-new receta has no incoming edges, so its sub-receta edges can
	// never close a cycle; only existence and duplicates are checked here.
	insumos, subs, err := s.validarEdges(ctx, nil, req.InsumosData, req.SubRecetasData)
	if err != nil {
		return nil, err
	}
	receta := &model.Receta{Nombre: req.Nombre, Descripcion: req.Descripcion}
	if err := s.repo.Crear(ctx, receta, insumos, subs); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, receta.ID)
}

func (s *recetaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.RecetaResponse, error) {
	receta, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return recetaToResponse(receta), nil
}

func (s *recetaService) Buscar(ctx context.Context, filter dto.RecetaFilter) ([]dto.RecetaResponse, error) {
	recetas, err := s.repo.Buscar(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RecetaResponse, 0, len(recetas))
	for i := range recetas {
		resp = append(resp, *recetaToResponse(&recetas[i]))
	}
	return resp, nil
}

func (s *recetaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarRecetaRequest) (*dto.RecetaResponse, error) {
	receta, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	insumos, subs, err := s.validarEdges(ctx, &id, req.InsumosData, req.SubRecetasData)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		receta.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		receta.Descripcion = req.Descripcion
	}
	if err := s.repo.Actualizar(ctx, receta, insumos, subs); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *recetaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.ContarReferencias(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: la receta sigue en uso por %d productos o recetas", ErrSolicitudInvalida, refs)
	}
	return s.repo.Eliminar(ctx, id)
}

// CalcularCosto walks the full recipe subtree on every call. Nothing is
// cached: an insumo cost edit is reflected on the very next invocation.
func (s *recetaService) CalcularCosto(ctx context.Context, id uuid.UUID) (*dto.CostoRecetaResponse, error) {
	receta, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	costo, err := bom.Cost(ctx, s.repo, s.insumoRepo, id)
	if err != nil {
		return nil, err
	}
	return &dto.CostoRecetaResponse{
		RecetaID: receta.ID.String(),
		Nombre:   receta.Nombre,
		Costo:    costo,
	}, nil
}

// GenerarCostoPDF writes a one-page cost breakdown report and returns the
// file path. Direct insumo lines carry cantidad × costo unitario; sub-receta
// lines carry cantidad × the sub-recipe's own recursive cost.
func (s *recetaService) GenerarCostoPDF(ctx context.Context, id uuid.UUID) (string, error) {
	receta, err := s.buscar(ctx, id)
	if err != nil {
		return "", err
	}
	costo, err := bom.Cost(ctx, s.repo, s.insumoRepo, id)
	if err != nil {
		return "", err
	}

	reporte := infra.CostoReporte{
		RecetaID: receta.ID.String(),
		Nombre:   receta.Nombre,
		Costo:    costo,
	}
	for _, edge := range receta.Insumos {
		linea := infra.CostoLinea{Cantidad: edge.Cantidad}
		if edge.Insumo != nil {
			linea.Nombre = edge.Insumo.Nombre
			linea.Unidad = edge.Insumo.UnidadMedida
			linea.Subtotal = edge.Cantidad.Mul(edge.Insumo.CostoUnitario)
		}
		reporte.Lineas = append(reporte.Lineas, linea)
	}
	for _, edge := range receta.SubRecetas {
		subCosto, err := bom.Cost(ctx, s.repo, s.insumoRepo, edge.RecetaHijaID)
		if err != nil {
			return "", err
		}
		// Sub-recetas carry no unit of measure; the quantity stands alone.
		linea := infra.CostoLinea{
			Cantidad: edge.Cantidad,
			Subtotal: edge.Cantidad.Mul(subCosto),
		}
		if edge.Hija != nil {
			linea.Nombre = edge.Hija.Nombre
		}
		reporte.Lineas = append(reporte.Lineas, linea)
	}

	return infra.GenerateCostoPDF(reporte, s.pdfPath)
}

// validarEdges checks the incoming edge set and converts it to model rows.
// recetaID is nil on create; on update the sub-receta edges are additionally
// checked against the stored graph so no insert can close a cycle.
func (s *recetaService) validarEdges(ctx context.Context, recetaID *uuid.UUID, insumos []dto.RecetaInsumoData, subs []dto.RecetaSubRecetaData) ([]model.RecetaInsumo, []model.RecetaSubReceta, error) {
	vistosInsumo := make(map[uuid.UUID]bool, len(insumos))
	edgesInsumo := make([]model.RecetaInsumo, 0, len(insumos))
	for _, data := range insumos {
		insumoID, err := uuid.Parse(data.InsumoID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: insumo_id %q no es un uuid", ErrSolicitudInvalida, data.InsumoID)
		}
		if vistosInsumo[insumoID] {
			return nil, nil, fmt.Errorf("%w: insumo %s repetido en la receta", ErrSolicitudInvalida, insumoID)
		}
		vistosInsumo[insumoID] = true
		if data.Cantidad.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("%w: la cantidad del insumo %s debe ser mayor a cero", ErrSolicitudInvalida, insumoID)
		}
		if _, err := s.insumoRepo.ObtenerPorID(ctx, insumoID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, &bom.NotFoundError{Entidad: "insumo", ID: insumoID}
			}
			return nil, nil, err
		}
		edgesInsumo = append(edgesInsumo, model.RecetaInsumo{InsumoID: insumoID, Cantidad: data.Cantidad})
	}

	vistosSub := make(map[uuid.UUID]bool, len(subs))
	edgesSub := make([]model.RecetaSubReceta, 0, len(subs))
	for _, data := range subs {
		hijaID, err := uuid.Parse(data.RecetaID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: receta_id %q no es un uuid", ErrSolicitudInvalida, data.RecetaID)
		}
		if vistosSub[hijaID] {
			return nil, nil, fmt.Errorf("%w: sub-receta %s repetida en la receta", ErrSolicitudInvalida, hijaID)
		}
		vistosSub[hijaID] = true
		if data.Cantidad.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("%w: la cantidad de la sub-receta %s debe ser mayor a cero", ErrSolicitudInvalida, hijaID)
		}
		if _, err := s.repo.ObtenerPorID(ctx, hijaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, &bom.NotFoundError{Entidad: "receta", ID: hijaID}
			}
			return nil, nil, err
		}
		if recetaID != nil {
			if hijaID == *recetaID {
				return nil, nil, fmt.Errorf("%w: una receta no puede contenerse a sí misma", ErrSolicitudInvalida)
			}
			ciclo, err := bom.WouldCycle(ctx, s.repo, *recetaID, hijaID)
			if err != nil {
				return nil, nil, err
			}
			if ciclo {
				return nil, nil, &bom.GraphCycleError{RecetaID: hijaID}
			}
		}
		edgesSub = append(edgesSub, model.RecetaSubReceta{RecetaHijaID: hijaID, Cantidad: data.Cantidad})
	}
	return edgesInsumo, edgesSub, nil
}

func (s *recetaService) buscar(ctx context.Context, id uuid.UUID) (*model.Receta, error) {
	receta, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bom.NotFoundError{Entidad: "receta", ID: id}
		}
		return nil, err
	}
	return receta, nil
}

func recetaToResponse(r *model.Receta) *dto.RecetaResponse {
	resp := &dto.RecetaResponse{
		ID:          r.ID.String(),
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		Insumos:     make([]dto.RecetaInsumoResponse, 0, len(r.Insumos)),
		SubRecetas:  make([]dto.RecetaSubRecetaResponse, 0, len(r.SubRecetas)),
	}
	for _, edge := range r.Insumos {
		item := dto.RecetaInsumoResponse{Cantidad: edge.Cantidad}
		if edge.Insumo != nil {
			item.Insumo = *insumoToResponse(edge.Insumo)
		}
		resp.Insumos = append(resp.Insumos, item)
	}
	for _, edge := range r.SubRecetas {
		item := dto.RecetaSubRecetaResponse{
			RecetaID: edge.RecetaHijaID.String(),
			Cantidad: edge.Cantidad,
		}
		if edge.Hija != nil {
			item.Nombre = edge.Hija.Nombre
		}
		resp.SubRecetas = append(resp.SubRecetas, item)
	}
	return resp
}
