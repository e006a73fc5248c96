package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/internal/domain/repository"
	"github.com/tu-usuario/erp-core/pkg/logger"
)

// QuotationUseCase ciclo de vida de cotizaciones: Draft -> Finalized,
// Draft|Finalized -> Cancelled. Las cotizaciones nunca mueven stock, en
// ninguna transición.
type QuotationUseCase struct {
	txRunner      BillingTxRunner
	quotationRepo repository.QuotationRepository
	customerRepo  repository.CustomerRepository
	numbers       NumberGenerator
	allowEmpty    bool
	log           *logger.Logger
}

// NewQuotationUseCase construye el caso de uso.
func NewQuotationUseCase(
	txRunner BillingTxRunner,
	quotationRepo repository.QuotationRepository,
	customerRepo repository.CustomerRepository,
	numbers NumberGenerator,
	allowEmpty bool,
	log *logger.Logger,
) *QuotationUseCase {
	return &QuotationUseCase{
		txRunner:      txRunner,
		quotationRepo: quotationRepo,
		customerRepo:  customerRepo,
		numbers:       numbers,
		allowEmpty:    allowEmpty,
		log:           log,
	}
}

// Create crea la cotización con sus líneas en una transacción. El estado
// inicial es siempre Draft, sin importar lo que envíe el cliente.
func (uc *QuotationUseCase) Create(ctx context.Context, in dto.SaveQuotationRequest) (*dto.MutationResponse, error) {
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	validUntil, err := parseOptionalDate(in.ValidUntil)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if !uc.allowEmpty && len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}

	number := in.Number
	if number == "" {
		number = uc.numbers.Next("COT")
	}

	now := time.Now()
	q := &entity.Quotation{
		ID:         uuid.New().String(),
		Number:     number,
		CustomerID: in.CustomerID,
		Date:       date,
		ValidUntil: validUntil,
		Subtotal:   in.Subtotal,
		TaxAmount:  in.TaxAmount,
		Total:      in.Total,
		Notes:      in.Notes,
		Status:     entity.StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lines := buildLines(q.ID, in.Items)

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.ItemRepository,
		_ repository.KitRepository,
		_ repository.InvoiceRepository,
		quotationRepo repository.QuotationRepository,
	) error {
		if err := quotationRepo.Create(q); err != nil {
			return err
		}
		for _, line := range lines {
			if err := quotationRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MutationResponse{Success: true, Message: "Cotización creada correctamente", ID: q.ID}, nil
}

// Update reemplaza cabecera y líneas completas. Sin efecto de stock.
func (uc *QuotationUseCase) Update(ctx context.Context, id string, in dto.SaveQuotationRequest) (*dto.MutationResponse, error) {
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	validUntil, err := parseOptionalDate(in.ValidUntil)
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
	switch newStatus {
	case entity.StatusDraft, entity.StatusFinalized, entity.StatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.ItemRepository,
		_ repository.KitRepository,
		_ repository.InvoiceRepository,
		quotationRepo repository.QuotationRepository,
	) error {
		existing, err := quotationRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		existing.Number = in.Number
		existing.CustomerID = in.CustomerID
		existing.Date = date
		existing.ValidUntil = validUntil
		existing.Subtotal = in.Subtotal
		existing.TaxAmount = in.TaxAmount
		existing.Total = in.Total
		existing.Notes = in.Notes
		existing.Status = newStatus
		existing.UpdatedAt = time.Now()
		if err := quotationRepo.Update(existing); err != nil {
			return err
		}
		if err := quotationRepo.DeleteLines(id); err != nil {
			return err
		}
		for _, line := range buildLines(id, in.Items) {
			if err := quotationRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MutationResponse{Success: true, Message: "Cotización actualizada correctamente", ID: id}, nil
}

// Delete borra la cotización y sus líneas. Nunca toca stock.
func (uc *QuotationUseCase) Delete(ctx context.Context, id string) (*dto.MutationResponse, error) {
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.ItemRepository,
		_ repository.KitRepository,
		_ repository.InvoiceRepository,
		quotationRepo repository.QuotationRepository,
	) error {
		existing, err := quotationRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if err := quotationRepo.DeleteLines(id); err != nil {
			return err
		}
		return quotationRepo.Delete(id)
	})
	if err != nil {
		return nil, err
	}
	return &dto.MutationResponse{Success: true, Message: "Cotización borrada correctamente", ID: id}, nil
}

// Finalize transiciona Draft -> Finalized. Idempotente si ya estaba
// finalizada; inválido desde Cancelled.
func (uc *QuotationUseCase) Finalize(ctx context.Context, id string) (*dto.MutationResponse, error) {
	existing, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if existing.Status == entity.StatusFinalized {
		return &dto.MutationResponse{Success: true, Message: "La cotización ya estaba finalizada", ID: id}, nil
	}
	if existing.Status == entity.StatusCancelled {
		return nil, domain.ErrConflict
	}
	if err := uc.quotationRepo.UpdateStatus(id, entity.StatusFinalized); err != nil {
		return nil, err
	}
	return &dto.MutationResponse{Success: true, Message: "Cotización finalizada correctamente", ID: id}, nil
}

// Cancel transiciona Draft|Finalized -> Cancelled. Idempotente.
func (uc *QuotationUseCase) Cancel(ctx context.Context, id string) (*dto.MutationResponse, error) {
	existing, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if existing.Status == entity.StatusCancelled {
		return &dto.MutationResponse{Success: true, Message: "La cotización ya estaba cancelada", ID: id}, nil
	}
	if err := uc.quotationRepo.UpdateStatus(id, entity.StatusCancelled); err != nil {
		return nil, err
	}
	return &dto.MutationResponse{Success: true, Message: "Cotización cancelada", ID: id}, nil
}

// Get devuelve la cotización con sus líneas y el nombre del cliente.
func (uc *QuotationUseCase) Get(ctx context.Context, id string) (*dto.QuotationResponse, error) {
	q, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.quotationRepo.LinesByDocument(id)
	if err != nil {
		return nil, err
	}
	out := quotationToResponse(q, lines)
	if q.CustomerID != "" {
		if customer, err := uc.customerRepo.GetByID(q.CustomerID); err == nil && customer != nil {
			out.CustomerName = customer.Name
		}
	}
	return out, nil
}

// List devuelve las cabeceras de todas las cotizaciones.
func (uc *QuotationUseCase) List(ctx context.Context) ([]*dto.QuotationResponse, error) {
	list, err := uc.quotationRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuotationResponse, 0, len(list))
	for _, q := range list {
		out = append(out, quotationToResponse(q, nil))
	}
	return out, nil
}

func quotationToResponse(q *entity.Quotation, lines []*entity.DocumentLine) *dto.QuotationResponse {
	out := &dto.QuotationResponse{
		ID:         q.ID,
		Number:     q.Number,
		CustomerID: q.CustomerID,
		Date:       q.Date.Format(dateLayout),
		Subtotal:   q.Subtotal,
		TaxAmount:  q.TaxAmount,
		Total:      q.Total,
		Notes:      q.Notes,
		Status:     q.Status,
		Items:      linesToResponse(lines),
	}
	if q.ValidUntil != nil {
		out.ValidUntil = q.ValidUntil.Format(dateLayout)
	}
	return out
}
