package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/application/inventory"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
	"github.com/tu-usuario/erp-core/pkg/logger"
)

const dateLayout = "2006-01-02"

// InvoiceUseCase ciclo de vida de facturas: crear, actualizar, finalizar,
// marcar pagada y borrar. Toda transición que mueve stock delega el cálculo y
// la aplicación de deltas en el StockReconciler; el guardado de cabecera y
// líneas es atómico vía BillingTxRunner.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	itemRepo     repository.ItemRepository
	kitRepo      repository.KitRepository
	customerRepo repository.CustomerRepository
	reconciler   *StockReconciler
	numbers      NumberGenerator
	allowEmpty   bool
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso. allowEmpty permite documentos
// sin líneas (comportamiento configurable, activo por defecto).
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.ItemRepository,
	kitRepo repository.KitRepository,
	customerRepo repository.CustomerRepository,
	reconciler *StockReconciler,
	numbers NumberGenerator,
	allowEmpty bool,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
		kitRepo:      kitRepo,
		customerRepo: customerRepo,
		reconciler:   reconciler,
		numbers:      numbers,
		allowEmpty:   allowEmpty,
		log:          log,
	}
}

// buildLines materializa las líneas del request con sus snapshots (nombre y
// código tributario se guardan tal como llegan, no se rederivan del catálogo).
func buildLines(documentID string, items []dto.DocumentLineRequest) []*entity.DocumentLine {
	lines := make([]*entity.DocumentLine, 0, len(items))
	for i, it := range items {
		lines = append(lines, &entity.DocumentLine{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			ItemID:     it.ItemID,
			ItemName:   it.ItemName,
			TaxCode:    it.TaxCode,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Discount:   it.Discount,
			TaxRate:    it.TaxRate,
			Total:      it.Total,
			Position:   i,
		})
	}
	return lines
}

func validInvoiceStatus(s string) bool {
	switch s {
	case entity.StatusDraft, entity.StatusFinalized, entity.StatusPaid, entity.StatusCancelled:
		return true
	}
	return false
}

// Create crea la factura con sus líneas en una transacción. El estado inicial
// lo decide el cliente (Draft por defecto); si llega Finalized el stock se
// descuenta en la misma transacción, línea a línea y best-effort.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.SaveInvoiceRequest) (*dto.MutationResponse, error) {
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	dueDate, err := parseOptionalDate(in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if !uc.allowEmpty && len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.StatusDraft
	}
	if !validInvoiceStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}

	number := in.Number
	if number == "" {
		number = uc.numbers.Next("INV")
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		Number:     number,
		CustomerID: in.CustomerID,
		Date:       date,
		DueDate:    dueDate,
		Subtotal:   in.Subtotal,
		TaxAmount:  in.TaxAmount,
		Total:      in.Total,
		Notes:      in.Notes,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lines := buildLines(inv.ID, in.Items)

	var res ReconcileResult
	err = uc.txRunner.RunBilling(ctx, func(
		itemRepo repository.ItemRepository,
		kitRepo repository.KitRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuotationRepository,
	) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, line := range lines {
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
		}
		if inv.Status == entity.StatusFinalized {
			res, err = uc.reconciler.Reconcile(itemRepo, kitRepo, lines, DirectionApply)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.MutationResponse{
		Success:      true,
		Message:      "Factura creada correctamente",
		ID:           inv.ID,
		StockUpdated: res.Adjusted(),
		StockClamped: res.Clamped,
		StockFailed:  res.Failed,
	}, nil
}

// Update reemplaza cabecera y líneas completas (delete + reinsert, nunca
// merge). El stock solo se mueve en los bordes de Finalized:
//   - no-Finalized -> Finalized: descuenta con el juego de líneas nuevo;
//   - Finalized -> Draft/Cancelled: restaura con el juego de líneas viejo.
//
// Repetir un update ya Finalized -> Finalized no vuelve a tocar stock: el
// único guard de idempotencia es el estado previo.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.SaveInvoiceRequest) (*dto.MutationResponse, error) {
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	dueDate, err := parseOptionalDate(in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if !uc.allowEmpty && len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	newStatus := in.Status
	if newStatus == "" {
		newStatus = entity.StatusDraft
	}
	if !validInvoiceStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}

	var applied, restored ReconcileResult
	err = uc.txRunner.RunBilling(ctx, func(
		itemRepo repository.ItemRepository,
		kitRepo repository.KitRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuotationRepository,
	) error {
		existing, err := invoiceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		prevStatus := existing.Status

		// La desfinalización restaura con las líneas viejas, antes de
		// reemplazarlas.
		if prevStatus == entity.StatusFinalized && newStatus != entity.StatusFinalized && newStatus != entity.StatusPaid {
			oldLines, err := invoiceRepo.LinesByDocument(id)
			if err != nil {
				return err
			}
			restored, err = uc.reconciler.Reconcile(itemRepo, kitRepo, oldLines, DirectionRestore)
			if err != nil {
				return err
			}
		}

		existing.Number = in.Number
		existing.CustomerID = in.CustomerID
		existing.Date = date
		existing.DueDate = dueDate
		existing.Subtotal = in.Subtotal
		existing.TaxAmount = in.TaxAmount
		existing.Total = in.Total
		existing.Notes = in.Notes
		existing.Status = newStatus
		existing.UpdatedAt = time.Now()
		if err := invoiceRepo.Update(existing); err != nil {
			return err
		}

		if err := invoiceRepo.DeleteLines(id); err != nil {
			return err
		}
		lines := buildLines(id, in.Items)
		for _, line := range lines {
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
		}

		if prevStatus != entity.StatusFinalized && newStatus == entity.StatusFinalized {
			applied, err = uc.reconciler.Reconcile(itemRepo, kitRepo, lines, DirectionApply)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.MutationResponse{
		Success:       true,
		Message:       "Factura actualizada correctamente",
		ID:            id,
		StockUpdated:  applied.Adjusted(),
		StockRestored: restored.Adjusted(),
		StockClamped:  applied.Clamped + restored.Clamped,
		StockFailed:   applied.Failed + restored.Failed,
	}, nil
}

// Delete borra la factura y sus líneas. Si estaba Finalized, primero restaura
// el stock de cada línea resoluble (best-effort); el inverso exacto del
// descuento de finalización, módulo clamps previos.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) (*dto.MutationResponse, error) {
	var restored ReconcileResult
	err := uc.txRunner.RunBilling(ctx, func(
		itemRepo repository.ItemRepository,
		kitRepo repository.KitRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuotationRepository,
	) error {
		existing, err := invoiceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if existing.Status == entity.StatusFinalized {
			lines, err := invoiceRepo.LinesByDocument(id)
			if err != nil {
				return err
			}
			restored, err = uc.reconciler.Reconcile(itemRepo, kitRepo, lines, DirectionRestore)
			if err != nil {
				return err
			}
		}
		if err := invoiceRepo.DeleteLines(id); err != nil {
			return err
		}
		return invoiceRepo.Delete(id)
	})
	if err != nil {
		return nil, err
	}

	msg := "Factura borrada correctamente"
	if restored.Adjusted() > 0 {
		msg = fmt.Sprintf("Factura borrada y stock restaurado para %d líneas", restored.Adjusted())
	}
	return &dto.MutationResponse{
		Success:       true,
		Message:       msg,
		ID:            id,
		StockRestored: restored.Adjusted(),
		StockClamped:  restored.Clamped,
		StockFailed:   restored.Failed,
	}, nil
}

// Finalize transiciona la factura a Finalized y descuenta stock. Finalizar
// una factura ya finalizada es un no-op que reporta éxito sin volver a tocar
// stock. Una factura pagada no puede re-finalizarse.
func (uc *InvoiceUseCase) Finalize(ctx context.Context, id string) (*dto.MutationResponse, error) {
	var res ReconcileResult
	alreadyFinalized := false
	err := uc.txRunner.RunBilling(ctx, func(
		itemRepo repository.ItemRepository,
		kitRepo repository.KitRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuotationRepository,
	) error {
		existing, err := invoiceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if existing.Status == entity.StatusFinalized {
			alreadyFinalized = true
			return nil
		}
		if existing.Status == entity.StatusPaid {
			return domain.ErrConflict
		}
		if err := invoiceRepo.UpdateStatus(id, entity.StatusFinalized); err != nil {
			return err
		}
		lines, err := invoiceRepo.LinesByDocument(id)
		if err != nil {
			return err
		}
		res, err = uc.reconciler.Reconcile(itemRepo, kitRepo, lines, DirectionApply)
		return err
	})
	if err != nil {
		return nil, err
	}

	if alreadyFinalized {
		return &dto.MutationResponse{Success: true, Message: "La factura ya estaba finalizada", ID: id}, nil
	}
	return &dto.MutationResponse{
		Success:      true,
		Message:      fmt.Sprintf("Factura finalizada y stock actualizado para %d líneas", res.Adjusted()),
		ID:           id,
		StockUpdated: res.Adjusted(),
		StockClamped: res.Clamped,
		StockFailed:  res.Failed,
	}, nil
}

// MarkPaid transiciona Finalized -> Paid. No mueve stock.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id string) (*dto.MutationResponse, error) {
	existing, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if existing.Status != entity.StatusFinalized {
		return nil, domain.ErrConflict
	}
	if err := uc.invoiceRepo.UpdateStatus(id, entity.StatusPaid); err != nil {
		return nil, err
	}
	return &dto.MutationResponse{Success: true, Message: "Factura marcada como pagada", ID: id}, nil
}

// Get devuelve la factura con sus líneas y el nombre del cliente.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.LinesByDocument(id)
	if err != nil {
		return nil, err
	}
	out := invoiceToResponse(inv, lines)
	if inv.CustomerID != "" {
		if customer, err := uc.customerRepo.GetByID(inv.CustomerID); err == nil && customer != nil {
			out.CustomerName = customer.Name
		}
	}
	return out, nil
}

// List devuelve las cabeceras de todas las facturas.
func (uc *InvoiceUseCase) List(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, invoiceToResponse(inv, nil))
	}
	return out, nil
}

// CheckStock verifica disponibilidad para un juego de líneas sin mutar nada.
// Expande kits: el faltante se reporta por componente, no por línea de kit.
func (uc *InvoiceUseCase) CheckStock(ctx context.Context, in dto.CheckStockRequest) (*dto.CheckStockResponse, error) {
	out := &dto.CheckStockResponse{SufficientStock: true, StockIssues: []dto.StockIssue{}, Success: true}
	for _, line := range in.Items {
		if line.ItemID == "" {
			continue
		}
		comps, err := inventory.ExpandKit(uc.kitRepo, line.ItemID)
		if err != nil {
			return nil, err
		}
		for _, comp := range comps {
			item, err := uc.itemRepo.GetByID(comp.ItemID)
			if err != nil || item == nil {
				continue
			}
			required := line.Quantity * comp.Quantity
			if item.Stock < required {
				out.SufficientStock = false
				out.StockIssues = append(out.StockIssues, dto.StockIssue{
					ItemID:           item.ID,
					ItemCode:         item.Code,
					ItemName:         item.Name,
					AvailableStock:   item.Stock,
					RequiredQuantity: required,
					Shortage:         required - item.Stock,
				})
			}
		}
	}
	return out, nil
}

func invoiceToResponse(inv *entity.Invoice, lines []*entity.DocumentLine) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:         inv.ID,
		Number:     inv.Number,
		CustomerID: inv.CustomerID,
		Date:       inv.Date.Format(dateLayout),
		Subtotal:   inv.Subtotal,
		TaxAmount:  inv.TaxAmount,
		Total:      inv.Total,
		Notes:      inv.Notes,
		Status:     inv.Status,
		Items:      linesToResponse(lines),
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(dateLayout)
	}
	return out
}

func linesToResponse(lines []*entity.DocumentLine) []dto.DocumentLineResponse {
	out := make([]dto.DocumentLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.DocumentLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			TaxCode:   l.TaxCode,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			TaxRate:   l.TaxRate,
			Total:     l.Total,
		})
	}
	return out
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
