package handler

import (
	"net/http"

	"comoencasa/internal/apierror"
	"comoencasa/internal/dto"
	"comoencasa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecetasHandler struct{ svc service.RecetaService }

func NewRecetasHandler(svc service.RecetaService) *RecetasHandler {
	return &RecetasHandler{svc: svc}
}

// Crear POST /v1/recetas
func (h *RecetasHandler) Crear(c *gin.Context) {
	var req dto.CrearRecetaRequest
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

// Buscar GET /v1/recetas?id=&nombre=
func (h *RecetasHandler) Buscar(c *gin.Context) {
	var filter dto.RecetaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtros inválidos"))
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID GET /v1/recetas/:id
func (h *RecetasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, svcErr := h.svc.ObtenerPorID(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /v1/recetas/:id
func (h *RecetasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarRecetaRequest
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

// Eliminar DELETE /v1/recetas/:id
func (h *RecetasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if svcErr := h.svc.Eliminar(c.Request.Context(), id); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Costo GET /v1/recetas/:id/costo
func (h *RecetasHandler) Costo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, svcErr := h.svc.CalcularCosto(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CostoPDF GET /v1/recetas/:id/costo/pdf — streams the cost breakdown report.
func (h *RecetasHandler) CostoPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	path, svcErr := h.svc.GenerarCostoPDF(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="costo_`+id.String()+`.pdf"`)
	c.File(path)
}
