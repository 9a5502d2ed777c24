package handler

import (
	"net/http"
	"strconv"

	"comoencasa/internal/apierror"
	"comoencasa/internal/dto"
	"comoencasa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InsumosHandler struct{ svc service.InsumoService }

func NewInsumosHandler(svc service.InsumoService) *InsumosHandler {
	return &InsumosHandler{svc: svc}
}

// Crear POST /v1/insumos
func (h *InsumosHandler) Crear(c *gin.Context) {
	var req dto.CrearInsumoRequest
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

// Listar GET /v1/insumos
func (h *InsumosHandler) Listar(c *gin.Context) {
	var filter dto.InsumoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtros inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID GET /v1/insumos/:id
func (h *InsumosHandler) ObtenerPorID(c *gin.Context) {
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

// Actualizar PUT /v1/insumos/:id
func (h *InsumosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarInsumoRequest
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

// Desactivar DELETE /v1/insumos/:id
func (h *InsumosHandler) Desactivar(c *gin.Context) {
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

// AjustarStock PATCH /v1/insumos/:id/stock
func (h *InsumosHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.AjustarStock(c.Request.Context(), id, req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alertas GET /v1/insumos/alertas
func (h *InsumosHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos GET /v1/insumos/movimientos?insumo_id=&limit=
func (h *InsumosHandler) Movimientos(c *gin.Context) {
	var insumoID *uuid.UUID
	if raw := c.Query("insumo_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("insumo_id inválido"))
			return
		}
		insumoID = &id
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, apierror.New("limit inválido"))
			return
		}
		limit = n
	}
	resp, err := h.svc.Movimientos(c.Request.Context(), insumoID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
