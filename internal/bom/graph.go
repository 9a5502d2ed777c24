// Package bom implements the recipe-graph traversals behind costing and stock
// consumption: a receta is a bill of materials over insumos and other recetas,
// and selling a product explodes that tree multiplying quantities at each
// level. The package is independent of persistence — callers supply the graph
// through small interfaces, which keeps the traversal unit-testable against
// in-memory fixtures.
package bom

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxDepth bounds the traversal. The graph is supposed to be acyclic and
// shallow; hitting this limit means the data is broken in a way the on-path
// check did not catch (e.g. a long chain created by a bad import).
const maxDepth = 32

// InsumoEdge is a Receta→Insumo edge: Cantidad insumo units per recipe unit.
type InsumoEdge struct {
	InsumoID uuid.UUID
	Cantidad decimal.Decimal
}

// SubRecetaEdge is a Receta→Receta edge: Cantidad child units per parent unit.
type SubRecetaEdge struct {
	RecetaID uuid.UUID
	Cantidad decimal.Decimal
}

// Graph exposes the direct outgoing edges of a receta. Implementations must
// not return duplicate edges for the same insumo or child (unique-pair
// invariant of the catalog).
type Graph interface {
	DirectInsumoEdges(ctx context.Context, recetaID uuid.UUID) ([]InsumoEdge, error)
	DirectSubRecetaEdges(ctx context.Context, recetaID uuid.UUID) ([]SubRecetaEdge, error)
}

// CostLookup resolves the current unit cost of an insumo.
type CostLookup interface {
	CostoUnitario(ctx context.Context, insumoID uuid.UUID) (decimal.Decimal, error)
}

// walker performs the depth-first walk shared by Cost, Requirements and the
// cycle check. onPath tracks recetas on the current path so a revisit aborts
// with GraphCycleError instead of recursing forever.
type walker struct {
	g      Graph
	onPath map[uuid.UUID]bool
	depth  int
	visit  func(ctx context.Context, insumoID uuid.UUID, cantidad decimal.Decimal) error
}

func (w *walker) walk(ctx context.Context, recetaID uuid.UUID, factor decimal.Decimal) error {
	if w.onPath[recetaID] || w.depth >= maxDepth {
		return &GraphCycleError{RecetaID: recetaID}
	}
	w.onPath[recetaID] = true
	w.depth++
	defer func() {
		delete(w.onPath, recetaID)
		w.depth--
	}()

	insumos, err := w.g.DirectInsumoEdges(ctx, recetaID)
	if err != nil {
		return err
	}
	for _, e := range insumos {
		if err := w.visit(ctx, e.InsumoID, e.Cantidad.Mul(factor)); err != nil {
			return err
		}
	}

	subs, err := w.g.DirectSubRecetaEdges(ctx, recetaID)
	if err != nil {
		return err
	}
	for _, s := range subs {
		if err := w.walk(ctx, s.RecetaID, s.Cantidad.Mul(factor)); err != nil {
			return err
		}
	}
	return nil
}
