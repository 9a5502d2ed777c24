package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestCrearReceta_ConInsumos(t *testing.T) {
	insumos := newStubInsumoRepo()
	recetas := newStubRecetaRepo()
	harina := insumos.seed("Harina", 100, 10, 1.5)
	svc := NewRecetaService(recetas, insumos, t.TempDir())

	resp, err := svc.Crear(context.Background(), dto.CrearRecetaRequest{
		Nombre: "Masa",
		InsumosData: []dto.RecetaInsumoData{
			{InsumoID: harina.String(), Cantidad: dec(2)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Insumos, 1)
	assert.True(t, resp.Insumos[0].Cantidad.Equal(dec(2)))
}

func TestCrearReceta_InsumoInexistente(t *testing.T) {
	svc := NewRecetaService(newStubRecetaRepo(), newStubInsumoRepo(), t.TempDir())

	_, err := svc.Crear(context.Background(), dto.CrearRecetaRequest{
		Nombre: "Masa",
		InsumosData: []dto.RecetaInsumoData{
			{InsumoID: uuid.NewString(), Cantidad: dec(2)},
		},
	})

	var notFound *bom.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "insumo", notFound.Entidad)
}

func TestCrearReceta_InsumoRepetido(t *testing.T) {
	insumos := newStubInsumoRepo()
	harina := insumos.seed("Harina", 100, 10, 1.5)
	svc := NewRecetaService(newStubRecetaRepo(), insumos, t.TempDir())

	_, err := svc.Crear(context.Background(), dto.CrearRecetaRequest{
		Nombre: "Masa",
		InsumosData: []dto.RecetaInsumoData{
			{InsumoID: harina.String(), Cantidad: dec(2)},
			{InsumoID: harina.String(), Cantidad: dec(1)},
		},
	})
	require.ErrorIs(t, err, ErrSolicitudInvalida)
}

func TestCrearReceta_CantidadCero(t *testing.T) {
	insumos := newStubInsumoRepo()
	harina := insumos.seed("Harina", 100, 10, 1.5)
	svc := NewRecetaService(newStubRecetaRepo(), insumos, t.TempDir())

	_, err := svc.Crear(context.Background(), dto.CrearRecetaRequest{
		Nombre: "Masa",
		InsumosData: []dto.RecetaInsumoData{
			{InsumoID: harina.String(), Cantidad: decimal.Zero},
		},
	})
	require.ErrorIs(t, err, ErrSolicitudInvalida)
}

func TestActualizarReceta_CicloRechazado(t *testing.T) {
	insumos := newStubInsumoRepo()
	recetas := newStubRecetaRepo()
	svc := NewRecetaService(recetas, insumos, t.TempDir())

	// salsa is already contained in milanesa; pointing salsa back at
	// milanesa would close the loop.
	milanesa := recetas.seed("Milanesa")
	salsa := recetas.seed("Salsa")
	recetas.addSub(milanesa, salsa, 1)

	_, err := svc.Actualizar(context.Background(), salsa, dto.ActualizarRecetaRequest{
		SubRecetasData: []dto.RecetaSubRecetaData{
			{RecetaID: milanesa.String(), Cantidad: dec(1)},
		},
	})

	var ciclo *bom.GraphCycleError
	require.ErrorAs(t, err, &ciclo)
}

func TestActualizarReceta_AutoReferencia(t *testing.T) {
	recetas := newStubRecetaRepo()
	svc := NewRecetaService(recetas, newStubInsumoRepo(), t.TempDir())
	masa := recetas.seed("Masa")

	_, err := svc.Actualizar(context.Background(), masa, dto.ActualizarRecetaRequest{
		SubRecetasData: []dto.RecetaSubRecetaData{
			{RecetaID: masa.String(), Cantidad: dec(1)},
		},
	})
	require.ErrorIs(t, err, ErrSolicitudInvalida)
}

func TestActualizarReceta_ReemplazaEdges(t *testing.T) {
	insumos := newStubInsumoRepo()
	recetas := newStubRecetaRepo()
	harina := insumos.seed("Harina", 100, 10, 1.5)
	sal := insumos.seed("Sal", 10, 1, 0.5)
	svc := NewRecetaService(recetas, insumos, t.TempDir())

	masa := recetas.seed("Masa")
	recetas.addInsumo(masa, harina, 2)

	resp, err := svc.Actualizar(context.Background(), masa, dto.ActualizarRecetaRequest{
		InsumosData: []dto.RecetaInsumoData{
			{InsumoID: sal.String(), Cantidad: dec(0.1)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Insumos, 1, "el set de insumos se reemplaza completo")
	assert.True(t, resp.Insumos[0].Cantidad.Equal(dec(0.1)))
}

func TestCalcularCosto_Recursivo(t *testing.T) {
	insumos := newStubInsumoRepo()
	recetas := newStubRecetaRepo()

	harina := insumos.seed("Harina", 100, 10, 1)
	queso := insumos.seed("Queso", 50, 5, 80)

	masa := recetas.seed("Masa")
	recetas.addInsumo(masa, harina, 2)

	pizza := recetas.seed("Pizza")
	recetas.addSub(pizza, masa, 1)
	recetas.addInsumo(pizza, queso, 0.3)

	svc := NewRecetaService(recetas, insumos, t.TempDir())
	resp, err := svc.CalcularCosto(context.Background(), pizza)
	require.NoError(t, err)

	// 1×(2×1) + 0.3×80 = 26
	assert.True(t, resp.Costo.Equal(dec(26)), "costo: esperaba 26, fue %s", resp.Costo)
	assert.Equal(t, "Pizza", resp.Nombre)
}

func TestGenerarCostoPDF_EscribeArchivo(t *testing.T) {
	insumos := newStubInsumoRepo()
	recetas := newStubRecetaRepo()
	harina := insumos.seed("Harina", 100, 10, 1.5)
	masa := recetas.seed("Masa")
	recetas.addInsumo(masa, harina, 2)

	dir := t.TempDir()
	svc := NewRecetaService(recetas, insumos, dir)

	path, err := svc.GenerarCostoPDF(context.Background(), masa)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCalcularCosto_RecetaInexistente(t *testing.T) {
	svc := NewRecetaService(newStubRecetaRepo(), newStubInsumoRepo(), t.TempDir())

	_, err := svc.CalcularCosto(context.Background(), uuid.New())

	var notFound *bom.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "receta", notFound.Entidad)
}

func TestEliminarReceta_Inexistente(t *testing.T) {
	svc := NewRecetaService(newStubRecetaRepo(), newStubInsumoRepo(), t.TempDir())

	err := svc.Eliminar(context.Background(), uuid.New())

	var notFound *bom.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestEliminarReceta_ReferenciadaPorProducto(t *testing.T) {
	recetas := newStubRecetaRepo()
	masa := recetas.seed("Masa")
	recetas.referencias[masa] = 1
	svc := NewRecetaService(recetas, newStubInsumoRepo(), t.TempDir())

	err := svc.Eliminar(context.Background(), masa)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSolicitudInvalida))
	assert.Contains(t, recetas.recetas, masa, "la receta referenciada debe seguir existiendo")
}

func TestEliminarReceta_UsadaComoSubReceta(t *testing.T) {
	recetas := newStubRecetaRepo()
	masa := recetas.seed("Masa")
	pizza := recetas.seed("Pizza")
	recetas.addSub(pizza, masa, 1)
	svc := NewRecetaService(recetas, newStubInsumoRepo(), t.TempDir())

	err := svc.Eliminar(context.Background(), masa)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSolicitudInvalida))
}
