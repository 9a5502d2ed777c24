package service

import (
	"context"
	"errors"
	"fmt"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"
	"comoencasa/internal/model"
	"comoencasa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo          repository.ProductoRepository
	recetaRepo    repository.RecetaRepository
	categoriaRepo repository.CategoriaRepository
}

func NewProductoService(repo repository.ProductoRepository, recetaRepo repository.RecetaRepository, categoriaRepo repository.CategoriaRepository) ProductoService {
	return &productoService{repo: repo, recetaRepo: recetaRepo, categoriaRepo: categoriaRepo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	producto := &model.Producto{
		Nombre:         req.Nombre,
		Descripcion:    req.Descripcion,
		PrecioUnitario: req.PrecioUnitario,
		PrecioPorBulto: req.PrecioPorBulto,
		Disponible:     true,
		CantidadReceta: decimal.NewFromInt(1),
		Stock:          req.Stock,
	}
	if req.Disponible != nil {
		producto.Disponible = *req.Disponible
	}
	if req.CantidadReceta != nil {
		producto.CantidadReceta = *req.CantidadReceta
	}

	if err := s.vincular(ctx, producto, req.CategoriaID, req.RecetaID); err != nil {
		return nil, err
	}
	// A producto tracks stock through its receta or through its own counter,
	// never both.
	if producto.RecetaID != nil && producto.Stock != nil {
		return nil, fmt.Errorf("%w: un producto con receta no lleva stock propio", ErrSolicitudInvalida)
	}

	if err := s.repo.Crear(ctx, producto); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, producto.ID)
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		producto.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = *req.Descripcion
	}
	if req.PrecioUnitario != nil {
		producto.PrecioUnitario = *req.PrecioUnitario
	}
	if req.PrecioPorBulto != nil {
		producto.PrecioPorBulto = *req.PrecioPorBulto
	}
	if req.Disponible != nil {
		producto.Disponible = *req.Disponible
	}
	if req.CantidadReceta != nil {
		producto.CantidadReceta = *req.CantidadReceta
	}
	if req.Stock != nil {
		producto.Stock = req.Stock
	}
	if err := s.vincular(ctx, producto, req.CategoriaID, req.RecetaID); err != nil {
		return nil, err
	}
	if producto.RecetaID != nil && producto.Stock != nil {
		return nil, fmt.Errorf("%w: un producto con receta no lleva stock propio", ErrSolicitudInvalida)
	}
	if err := s.repo.Actualizar(ctx, producto); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	return s.repo.Eliminar(ctx, id)
}

// vincular resolves and validates the optional categoria and receta
// references coming from the request.
func (s *productoService) vincular(ctx context.Context, producto *model.Producto, categoriaID, recetaID *string) error {
	if categoriaID != nil {
		id, err := uuid.Parse(*categoriaID)
		if err != nil {
			return fmt.Errorf("%w: categoria_id %q no es un uuid", ErrSolicitudInvalida, *categoriaID)
		}
		if _, err := s.categoriaRepo.ObtenerPorID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &bom.NotFoundError{Entidad: "categoria", ID: id}
			}
			return err
		}
		producto.CategoriaID = &id
	}
	if recetaID != nil {
		id, err := uuid.Parse(*recetaID)
		if err != nil {
			return fmt.Errorf("%w: receta_id %q no es un uuid", ErrSolicitudInvalida, *recetaID)
		}
		if _, err := s.recetaRepo.ObtenerPorID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &bom.NotFoundError{Entidad: "receta", ID: id}
			}
			return err
		}
		producto.RecetaID = &id
	}
	return nil
}

func (s *productoService) buscar(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	producto, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bom.NotFoundError{Entidad: "producto", ID: id}
		}
		return nil, err
	}
	return producto, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		Descripcion:    p.Descripcion,
		PrecioUnitario: p.PrecioUnitario,
		PrecioPorBulto: p.PrecioPorBulto,
		Disponible:     p.Disponible,
		CantidadReceta: p.CantidadReceta,
		Stock:          p.Stock,
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	if p.RecetaID != nil {
		id := p.RecetaID.String()
		resp.RecetaID = &id
	}
	return resp
}
