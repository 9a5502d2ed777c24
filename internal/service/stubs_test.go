package service

// In-memory repository stubs. Every stub keeps its state in plain maps and
// returns gorm.ErrRecordNotFound where the real implementation would, so the
// services under test cannot tell them apart from the GORM-backed repos.
// DB() returns nil, which makes runTx call the callback directly.

import (
	"context"
	"sort"

	"comoencasa/internal/bom"
	"comoencasa/internal/dto"
	"comoencasa/internal/model"
	"comoencasa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ─── Insumos ─────────────────────────────────────────────────────────────────

type stubInsumoRepo struct {
	insumos map[uuid.UUID]*model.Insumo
}

var _ repository.InsumoRepository = (*stubInsumoRepo)(nil)

func newStubInsumoRepo() *stubInsumoRepo {
	return &stubInsumoRepo{insumos: make(map[uuid.UUID]*model.Insumo)}
}

func (s *stubInsumoRepo) seed(nombre string, stock, minimo, costo float64) uuid.UUID {
	id := uuid.New()
	s.insumos[id] = &model.Insumo{
		ID:            id,
		Nombre:        nombre,
		UnidadMedida:  "kg",
		StockActual:   decimal.NewFromFloat(stock),
		StockMinimo:   decimal.NewFromFloat(minimo),
		CostoUnitario: decimal.NewFromFloat(costo),
		Activo:        true,
	}
	return id
}

func (s *stubInsumoRepo) Crear(_ context.Context, i *model.Insumo) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	s.insumos[i.ID] = i
	return nil
}

func (s *stubInsumoRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Insumo, error) {
	i, ok := s.insumos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *i
	return &copia, nil
}

func (s *stubInsumoRepo) Listar(_ context.Context, _ dto.InsumoFilter) ([]model.Insumo, int64, error) {
	out := make([]model.Insumo, 0, len(s.insumos))
	for _, i := range s.insumos {
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

func (s *stubInsumoRepo) Actualizar(_ context.Context, i *model.Insumo) error {
	if _, ok := s.insumos[i.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *i
	s.insumos[i.ID] = &copia
	return nil
}

func (s *stubInsumoRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	i, ok := s.insumos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.Activo = false
	return nil
}

func (s *stubInsumoRepo) ListarBajoMinimo(_ context.Context) ([]model.Insumo, error) {
	var out []model.Insumo
	for _, i := range s.insumos {
		if i.Activo && i.StockActual.LessThanOrEqual(i.StockMinimo) {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (s *stubInsumoRepo) CostoUnitario(_ context.Context, id uuid.UUID) (decimal.Decimal, error) {
	i, ok := s.insumos[id]
	if !ok {
		return decimal.Zero, &bom.NotFoundError{Entidad: "insumo", ID: id}
	}
	return i.CostoUnitario, nil
}

func (s *stubInsumoRepo) LockPorIDsTx(_ *gorm.DB, ids []uuid.UUID) ([]model.Insumo, error) {
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	var out []model.Insumo
	for _, id := range sorted {
		if i, ok := s.insumos[id]; ok {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (s *stubInsumoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error {
	i, ok := s.insumos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.StockActual = i.StockActual.Sub(cantidad)
	return nil
}

func (s *stubInsumoRepo) AjustarStock(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	i, ok := s.insumos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.StockActual = i.StockActual.Add(delta)
	return nil
}

func (s *stubInsumoRepo) DB() *gorm.DB { return nil }

func (s *stubInsumoRepo) stock(id uuid.UUID) decimal.Decimal {
	return s.insumos[id].StockActual
}

// ─── Recetas ─────────────────────────────────────────────────────────────────

type stubRecetaRepo struct {
	recetas     map[uuid.UUID]*model.Receta
	insumos     map[uuid.UUID][]model.RecetaInsumo
	subs        map[uuid.UUID][]model.RecetaSubReceta
	referencias map[uuid.UUID]int64 // productos apuntando a la receta
}

var _ repository.RecetaRepository = (*stubRecetaRepo)(nil)

func newStubRecetaRepo() *stubRecetaRepo {
	return &stubRecetaRepo{
		recetas:     make(map[uuid.UUID]*model.Receta),
		insumos:     make(map[uuid.UUID][]model.RecetaInsumo),
		subs:        make(map[uuid.UUID][]model.RecetaSubReceta),
		referencias: make(map[uuid.UUID]int64),
	}
}

func (s *stubRecetaRepo) seed(nombre string) uuid.UUID {
	id := uuid.New()
	s.recetas[id] = &model.Receta{ID: id, Nombre: nombre}
	return id
}

func (s *stubRecetaRepo) addInsumo(receta, insumo uuid.UUID, cantidad float64) {
	s.insumos[receta] = append(s.insumos[receta], model.RecetaInsumo{
		RecetaID: receta,
		InsumoID: insumo,
		Cantidad: decimal.NewFromFloat(cantidad),
	})
}

func (s *stubRecetaRepo) addSub(padre, hija uuid.UUID, cantidad float64) {
	s.subs[padre] = append(s.subs[padre], model.RecetaSubReceta{
		RecetaPadreID: padre,
		RecetaHijaID:  hija,
		Cantidad:      decimal.NewFromFloat(cantidad),
	})
}

func (s *stubRecetaRepo) Crear(_ context.Context, r *model.Receta, insumos []model.RecetaInsumo, subs []model.RecetaSubReceta) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	s.recetas[r.ID] = r
	for i := range insumos {
		insumos[i].RecetaID = r.ID
	}
	for i := range subs {
		subs[i].RecetaPadreID = r.ID
	}
	s.insumos[r.ID] = insumos
	s.subs[r.ID] = subs
	return nil
}

func (s *stubRecetaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Receta, error) {
	r, ok := s.recetas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *r
	copia.Insumos = s.insumos[id]
	copia.SubRecetas = s.subs[id]
	return &copia, nil
}

func (s *stubRecetaRepo) Buscar(_ context.Context, filter dto.RecetaFilter) ([]model.Receta, error) {
	var out []model.Receta
	for id, r := range s.recetas {
		if filter.Nombre != "" && r.Nombre != filter.Nombre {
			continue
		}
		if filter.ID != "" && filter.ID != id.String() {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *stubRecetaRepo) Listar(_ context.Context) ([]model.Receta, error) {
	var out []model.Receta
	for _, r := range s.recetas {
		out = append(out, *r)
	}
	return out, nil
}

func (s *stubRecetaRepo) Actualizar(_ context.Context, r *model.Receta, insumos []model.RecetaInsumo, subs []model.RecetaSubReceta) error {
	if _, ok := s.recetas[r.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range insumos {
		insumos[i].RecetaID = r.ID
	}
	for i := range subs {
		subs[i].RecetaPadreID = r.ID
	}
	s.recetas[r.ID] = r
	s.insumos[r.ID] = insumos
	s.subs[r.ID] = subs
	return nil
}

func (s *stubRecetaRepo) Eliminar(_ context.Context, id uuid.UUID) error {
	delete(s.recetas, id)
	delete(s.insumos, id)
	delete(s.subs, id)
	return nil
}

func (s *stubRecetaRepo) ContarReferencias(_ context.Context, id uuid.UUID) (int64, error) {
	total := s.referencias[id]
	for _, edges := range s.subs {
		for _, e := range edges {
			if e.RecetaHijaID == id {
				total++
			}
		}
	}
	return total, nil
}

func (s *stubRecetaRepo) DirectInsumoEdges(_ context.Context, recetaID uuid.UUID) ([]bom.InsumoEdge, error) {
	var edges []bom.InsumoEdge
	for _, row := range s.insumos[recetaID] {
		edges = append(edges, bom.InsumoEdge{InsumoID: row.InsumoID, Cantidad: row.Cantidad})
	}
	return edges, nil
}

func (s *stubRecetaRepo) DirectSubRecetaEdges(_ context.Context, recetaID uuid.UUID) ([]bom.SubRecetaEdge, error) {
	var edges []bom.SubRecetaEdge
	for _, row := range s.subs[recetaID] {
		edges = append(edges, bom.SubRecetaEdge{RecetaID: row.RecetaHijaID, Cantidad: row.Cantidad})
	}
	return edges, nil
}

func (s *stubRecetaRepo) DB() *gorm.DB { return nil }

// ─── Productos ───────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto

	// alLockear runs right before LockPorIDTx reads the row, so a test can
	// interleave a concurrent deduction between the routing read and the lock.
	alLockear func()
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (s *stubProductoRepo) seedConReceta(nombre string, recetaID uuid.UUID, cantidadReceta float64) uuid.UUID {
	id := uuid.New()
	s.productos[id] = &model.Producto{
		ID:             id,
		Nombre:         nombre,
		Disponible:     true,
		RecetaID:       &recetaID,
		CantidadReceta: decimal.NewFromFloat(cantidadReceta),
	}
	return id
}

func (s *stubProductoRepo) seedConStock(nombre string, stock int) uuid.UUID {
	id := uuid.New()
	s.productos[id] = &model.Producto{
		ID:             id,
		Nombre:         nombre,
		Disponible:     true,
		CantidadReceta: decimal.NewFromInt(1),
		Stock:          &stock,
	}
	return id
}

func (s *stubProductoRepo) Crear(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.productos[p.ID] = p
	return nil
}

func (s *stubProductoRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := s.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (s *stubProductoRepo) Listar(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(s.productos))
	for _, p := range s.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *stubProductoRepo) Actualizar(_ context.Context, p *model.Producto) error {
	if _, ok := s.productos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *p
	s.productos[p.ID] = &copia
	return nil
}

func (s *stubProductoRepo) Eliminar(_ context.Context, id uuid.UUID) error {
	delete(s.productos, id)
	return nil
}

func (s *stubProductoRepo) LockPorIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	if s.alLockear != nil {
		s.alLockear()
	}
	p, ok := s.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (s *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := s.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	nuevo := *p.Stock - cantidad
	p.Stock = &nuevo
	return nil
}

func (s *stubProductoRepo) DB() *gorm.DB { return nil }

// ─── Movimientos ─────────────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoInsumo
}

var _ repository.MovimientoInsumoRepository = (*stubMovimientoRepo)(nil)

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (s *stubMovimientoRepo) CrearTx(_ *gorm.DB, m *model.MovimientoInsumo) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.movimientos = append(s.movimientos, *m)
	return nil
}

func (s *stubMovimientoRepo) Crear(_ context.Context, m *model.MovimientoInsumo) error {
	return s.CrearTx(nil, m)
}

func (s *stubMovimientoRepo) Listar(_ context.Context, insumoID *uuid.UUID, limit int) ([]model.MovimientoInsumo, error) {
	var out []model.MovimientoInsumo
	for _, m := range s.movimientos {
		if insumoID != nil && m.InsumoID != *insumoID {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ─── Categorías ──────────────────────────────────────────────────────────────

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
	productos  map[uuid.UUID]int64 // disponibles por categoria
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{
		categorias: make(map[uuid.UUID]*model.Categoria),
		productos:  make(map[uuid.UUID]int64),
	}
}

func (s *stubCategoriaRepo) seed(nombre string) uuid.UUID {
	id := uuid.New()
	s.categorias[id] = &model.Categoria{ID: id, Nombre: nombre, Activo: true}
	return id
}

func (s *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.categorias[c.ID] = c
	return nil
}

func (s *stubCategoriaRepo) Listar(_ context.Context) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range s.categorias {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := s.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (s *stubCategoriaRepo) ObtenerPorNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	for _, c := range s.categorias {
		if c.Nombre == nombre {
			copia := *c
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	if _, ok := s.categorias[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *c
	s.categorias[c.ID] = &copia
	return nil
}

func (s *stubCategoriaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	c, ok := s.categorias[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

func (s *stubCategoriaRepo) ContarProductos(_ context.Context, id uuid.UUID) (int64, error) {
	return s.productos[id], nil
}
