package bom

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cost computes the unit cost of a receta by recursive summation:
// Σ (insumo unit cost × edge quantity) over every insumo reachable in the
// subtree, quantities multiplied through each nesting level. Intermediate
// results are NOT rounded — only the final total is rounded to 2 decimals,
// so rounding error does not compound with depth. Pure read; every call
// re-walks the subtree against current catalog state.
func Cost(ctx context.Context, g Graph, costos CostLookup, recetaID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	w := &walker{
		g:      g,
		onPath: make(map[uuid.UUID]bool),
		visit: func(ctx context.Context, insumoID uuid.UUID, cantidad decimal.Decimal) error {
			costo, err := costos.CostoUnitario(ctx, insumoID)
			if err != nil {
				return err
			}
			total = total.Add(costo.Mul(cantidad))
			return nil
		},
	}
	if err := w.walk(ctx, recetaID, decimal.NewFromInt(1)); err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

// Requirements computes the total insumo quantities needed to consume
// cantidad units of a receta: the read-only dry run (phase 1) of a sale.
// Quantities for an insumo reachable through several branches accumulate.
func Requirements(ctx context.Context, g Graph, recetaID uuid.UUID, cantidad decimal.Decimal) (map[uuid.UUID]decimal.Decimal, error) {
	needs := make(map[uuid.UUID]decimal.Decimal)
	w := &walker{
		g:      g,
		onPath: make(map[uuid.UUID]bool),
		visit: func(_ context.Context, insumoID uuid.UUID, cantidad decimal.Decimal) error {
			needs[insumoID] = needs[insumoID].Add(cantidad)
			return nil
		},
	}
	if err := w.walk(ctx, recetaID, cantidad); err != nil {
		return nil, err
	}
	return needs, nil
}

// WouldCycle reports whether adding a padre→hija edge would close a cycle,
// i.e. whether padre is already reachable from hija through sub-recipe edges.
// Used by the catalog before inserting a RecetaSubReceta row.
func WouldCycle(ctx context.Context, g Graph, padreID, hijaID uuid.UUID) (bool, error) {
	if padreID == hijaID {
		return true, nil
	}
	pending := []uuid.UUID{hijaID}
	seen := map[uuid.UUID]bool{hijaID: true}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		subs, err := g.DirectSubRecetaEdges(ctx, current)
		if err != nil {
			return false, err
		}
		for _, s := range subs {
			if s.RecetaID == padreID {
				return true, nil
			}
			if !seen[s.RecetaID] {
				seen[s.RecetaID] = true
				pending = append(pending, s.RecetaID)
			}
		}
	}
	return false, nil
}
