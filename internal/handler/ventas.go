package handler

import (
	"net/http"

	"comoencasa/internal/dto"
	"comoencasa/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

// Confirmar POST /v1/ventas/confirmar
// Confirms the sale of a product: recipe-backed products consume insumos
// through the full recipe graph, direct products decrement their counter.
// Insufficient stock anywhere rejects the whole sale with 409.
func (h *VentasHandler) Confirmar(c *gin.Context) {
	var req dto.ConfirmarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmarVenta(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
