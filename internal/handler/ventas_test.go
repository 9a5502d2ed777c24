package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVentaService struct {
	resp *dto.ConfirmarVentaResponse
	err  error
}

func (s *stubVentaService) ConfirmarVenta(_ context.Context, _ dto.ConfirmarVentaRequest) (*dto.ConfirmarVentaResponse, error) {
	return s.resp, s.err
}

func setupVentasRouter(svc *stubVentaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewVentasHandler(svc)
	r.POST("/v1/ventas/confirmar", h.Confirmar)
	return r
}

func postConfirmar(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/ventas/confirmar", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfirmar_OK(t *testing.T) {
	svc := &stubVentaService{resp: &dto.ConfirmarVentaResponse{
		ProductoID: uuid.NewString(),
		Producto:   "Pizza Muzzarella",
		Cantidad:   decimal.NewFromInt(2),
	}}
	r := setupVentasRouter(svc)

	w := postConfirmar(t, r, gin.H{"producto_id": uuid.NewString(), "cantidad": 2})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.ConfirmarVentaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Pizza Muzzarella", resp.Producto)
}

func TestConfirmar_StockInsuficienteEs409(t *testing.T) {
	svc := &stubVentaService{err: &bom.InsufficientStockError{
		InsumoID: uuid.New(),
		Nombre:   "Queso",
		Faltante: decimal.NewFromFloat(0.5),
	}}
	r := setupVentasRouter(svc)

	w := postConfirmar(t, r, gin.H{"producto_id": uuid.NewString(), "cantidad": 1})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Queso")
}

func TestConfirmar_ProductoInexistenteEs404(t *testing.T) {
	svc := &stubVentaService{err: &bom.NotFoundError{Entidad: "producto", ID: uuid.New()}}
	r := setupVentasRouter(svc)

	w := postConfirmar(t, r, gin.H{"producto_id": uuid.NewString(), "cantidad": 1})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmar_CicloEs422(t *testing.T) {
	svc := &stubVentaService{err: &bom.GraphCycleError{RecetaID: uuid.New()}}
	r := setupVentasRouter(svc)

	w := postConfirmar(t, r, gin.H{"producto_id": uuid.NewString(), "cantidad": 1})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestConfirmar_ConflictoDeConcurrenciaEs409(t *testing.T) {
	svc := &stubVentaService{err: &bom.ConcurrencyConflictError{Err: context.DeadlineExceeded}}
	r := setupVentasRouter(svc)

	w := postConfirmar(t, r, gin.H{"producto_id": uuid.NewString(), "cantidad": 1})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestConfirmar_BodyInvalidoEs400(t *testing.T) {
	r := setupVentasRouter(&stubVentaService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/ventas/confirmar", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmar_ProductoIDNoUUIDEs422(t *testing.T) {
	r := setupVentasRouter(&stubVentaService{})

	w := postConfirmar(t, r, gin.H{"producto_id": "no-es-uuid", "cantidad": 1})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
