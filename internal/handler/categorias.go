package handler

import (
	"net/http"

	"comoencasa/internal/apierror"
	"comoencasa/internal/dto"
	"comoencasa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Crear POST /v1/categorias
func (h *CategoriasHandler) Crear(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/categorias — solo activas; ?todas=true incluye desactivadas.
func (h *CategoriasHandler) Listar(c *gin.Context) {
	todas := c.Query("todas") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), todas)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /v1/categorias/:id
func (h *CategoriasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.Actualizar(c.Request.Context(), id, req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar DELETE /v1/categorias/:id — rechaza con 422 mientras la
// categoría tenga productos disponibles.
func (h *CategoriasHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if svcErr := h.svc.Desactivar(c.Request.Context(), id); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
