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
	"gorm.io/gorm"
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	// Listar returns active categorias; incluirInactivas adds the
	// deactivated ones for back-office screens.
	Listar(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	existing, err := s.repo.ObtenerPorNombre(ctx, req.Nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoriaResponse{}, err
	}
	if existing != nil {
		return dto.CategoriaResponse{}, fmt.Errorf("%w: ya existe una categoría con ese nombre", ErrSolicitudInvalida)
	}

	c := &model.Categoria{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		if !c.Activo && !incluirInactivas {
			continue
		}
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.buscar(ctx, id)
	if err != nil {
		return dto.CategoriaResponse{}, err
	}

	if req.Nombre != nil {
		if *req.Nombre != c.Nombre {
			existing, err := s.repo.ObtenerPorNombre(ctx, *req.Nombre)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CategoriaResponse{}, err
			}
			if existing != nil && existing.ID != id {
				return dto.CategoriaResponse{}, fmt.Errorf("%w: ya existe una categoría con ese nombre", ErrSolicitudInvalida)
			}
		}
		c.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	enUso, err := s.repo.ContarProductos(ctx, id)
	if err != nil {
		return err
	}
	if enUso > 0 {
		return fmt.Errorf("%w: la categoría tiene %d productos disponibles", ErrSolicitudInvalida, enUso)
	}
	return s.repo.Desactivar(ctx, id)
}

func (s *categoriaService) buscar(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bom.NotFoundError{Entidad: "categoria", ID: id}
		}
		return nil, err
	}
	return c, nil
}
