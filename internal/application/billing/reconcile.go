package billing

import (
	"fmt"

	"github.com/tu-usuario/erp-core/internal/application/inventory"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
	"github.com/tu-usuario/erp-core/pkg/logger"
)

// ReconcileMode política frente a fallos por línea durante la reconciliación.
type ReconcileMode string

const (
	// ModeBestEffort tolera fallos por línea: se registran, se cuentan y no
	// abortan ni el lazo ni el guardado del documento.
	ModeBestEffort ReconcileMode = "best_effort"
	// ModeStrict aborta en el primer fallo; la transacción del documento se
	// revierte completa.
	ModeStrict ReconcileMode = "strict"
)

// ParseMode normaliza el valor de configuración; desconocido = best_effort.
func ParseMode(s string) ReconcileMode {
	if ReconcileMode(s) == ModeStrict {
		return ModeStrict
	}
	return ModeBestEffort
}

// Direction sentido del movimiento de stock de una transición de documento.
type Direction int

const (
	// DirectionApply descuenta stock (entrada a Finalized).
	DirectionApply Direction = -1
	// DirectionRestore devuelve stock (borrado de una factura finalizada).
	DirectionRestore Direction = 1
)

// ReconcileResult contadores del lazo de stock. Una línea con ítem resoluble
// cuenta como Attempted; Succeeded si todos sus componentes ajustaron limpio,
// Clamped si alguno recortó a cero, Failed si alguno falló. Las tres últimas
// son excluyentes por línea.
type ReconcileResult struct {
	Attempted int
	Succeeded int
	Clamped   int
	Failed    int
}

// Adjusted líneas cuyo stock quedó ajustado (limpio o con clamp).
func (r ReconcileResult) Adjusted() int { return r.Succeeded + r.Clamped }

// StockReconciler es el único punto que calcula y aplica deltas de stock para
// transiciones de documentos. Todas las rutas (crear finalizado, actualizar a
// finalizado, finalizar, borrar finalizado) pasan por aquí; no hay copias del
// lazo por endpoint.
type StockReconciler struct {
	mode ReconcileMode
	log  *logger.Logger
}

// NewStockReconciler construye el motor con la política indicada.
func NewStockReconciler(mode ReconcileMode, log *logger.Logger) *StockReconciler {
	return &StockReconciler{mode: mode, log: log}
}

// Mode devuelve la política configurada.
func (r *StockReconciler) Mode() ReconcileMode { return r.mode }

// Reconcile aplica el delta de cada línea en orden de inserción. Las líneas de
// texto libre (sin ítem) se saltan. Cada línea se expande por su composición
// de kit: una línea de kit K {C x3} con cantidad 2 ajusta C en 6.
//
// En best_effort un componente faltante o un error de ajuste no revierte los
// ajustes hermanos ni el guardado del documento: se loggea, se cuenta y el
// lazo continúa. En strict el primer fallo corta y devuelve el error.
func (r *StockReconciler) Reconcile(
	items repository.ItemRepository,
	kits repository.KitRepository,
	lines []*entity.DocumentLine,
	dir Direction,
) (ReconcileResult, error) {
	var res ReconcileResult
	for _, line := range lines {
		if !line.HasItem() {
			continue
		}
		res.Attempted++

		comps, err := inventory.ExpandKit(kits, line.ItemID)
		if err != nil {
			res.Failed++
			r.log.Warn().Err(err).Str("item_id", line.ItemID).Msg("expandir kit falló")
			if r.mode == ModeStrict {
				return res, fmt.Errorf("expandir kit %s: %w", line.ItemID, err)
			}
			continue
		}

		lineFailed, lineClamped := false, false
		for _, comp := range comps {
			delta := int(dir) * comp.Quantity * line.Quantity
			adj, err := items.AdjustStock(comp.ItemID, delta)
			if err != nil {
				lineFailed = true
				r.log.Warn().Err(err).
					Str("item_id", comp.ItemID).
					Int("delta", delta).
					Msg("ajuste de stock falló")
				if r.mode == ModeStrict {
					res.Failed++
					return res, fmt.Errorf("ajustar stock de %s: %w", comp.ItemID, err)
				}
				continue
			}
			if adj.Clamped {
				lineClamped = true
				r.log.Warn().
					Str("item_id", comp.ItemID).
					Int("old_stock", adj.OldStock).
					Int("delta", delta).
					Msg("stock recortado a cero")
			}
		}

		switch {
		case lineFailed:
			res.Failed++
		case lineClamped:
			res.Clamped++
		default:
			res.Succeeded++
		}
	}
	return res, nil
}
