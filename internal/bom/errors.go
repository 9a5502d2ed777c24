package bom

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotFoundError indicates a referenced producto, receta or insumo is missing.
type NotFoundError struct {
	Entidad string // "producto" | "receta" | "insumo"
	ID      uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entidad, e.ID)
}

// GraphCycleError indicates a receta was reached twice on the same traversal
// path (or the depth guard tripped). The graph data is invalid; the walk is
// aborted before exhausting the stack.
type GraphCycleError struct {
	RecetaID uuid.UUID
}

func (e *GraphCycleError) Error() string {
	return fmt.Sprintf("ciclo detectado en el grafo de recetas (receta %s)", e.RecetaID)
}

// InsufficientStockError is returned by the consumption dry-run when some
// insumo would go negative. Faltante is the shortfall for the first insumo
// found short.
type InsufficientStockError struct {
	InsumoID uuid.UUID
	Nombre   string
	Faltante decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s: faltan %s", e.Nombre, e.Faltante.StringFixed(2))
}

// ConcurrencyConflictError wraps a row-lock or serialization failure.
// The caller may retry the whole operation.
type ConcurrencyConflictError struct {
	Err error
}

func (e *ConcurrencyConflictError) Error() string {
	return "conflicto de concurrencia al reservar insumos: " + e.Err.Error()
}

func (e *ConcurrencyConflictError) Unwrap() error { return e.Err }
