package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// QuotationUseCase
// ──────────────────────────────────────────────────────────────────────────────

type quotationFixture struct {
	uc         *QuotationUseCase
	items      *fakeItemRepo
	quotations *fakeQuotationRepo
}

func newQuotationFixture(stocks map[string]int) *quotationFixture {
	items := newFakeItemRepo(stocks)
	quotations := newFakeQuotationRepo()
	tx := &fakeTxRunner{
		items:      items,
		kits:       newFakeKitRepo(),
		invoices:   newFakeInvoiceRepo(),
		quotations: quotations,
	}
	uc := NewQuotationUseCase(tx, quotations, newFakeCustomerRepo("cust-1"), &fakeNumbers{}, true, testLogger())
	return &quotationFixture{uc: uc, items: items, quotations: quotations}
}

func quotationRequest(status string, items ...dto.DocumentLineRequest) dto.SaveQuotationRequest {
	return dto.SaveQuotationRequest{
		CustomerID: "cust-1",
		Date:       "2026-08-30",
		Status:     status,
		Items:      items,
	}
}

func TestQuotationCreate_SiempreNaceBorrador(t *testing.T) {
	fx := newQuotationFixture(map[string]int{"a": 10})

	// Aunque el cliente pida Finalized, la creación ignora el estado.
	res, err := fx.uc.Create(context.Background(), quotationRequest(entity.StatusFinalized, lineRequest("a", 4)))
	require.NoError(t, err)

	saved := fx.quotations.quotations[res.ID]
	require.NotNil(t, saved)
	assert.Equal(t, entity.StatusDraft, saved.Status)
	assert.Equal(t, 10, fx.items.items["a"].Stock, "una cotización jamás mueve stock")
	assert.Equal(t, "COT-0001", saved.Number)
}

func TestQuotationCreate_ClienteInexistente(t *testing.T) {
	fx := newQuotationFixture(nil)

	in := quotationRequest("")
	in.CustomerID = "no-existe"
	_, err := fx.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuotationUpdate_ReemplazaLineasSinTocarStock(t *testing.T) {
	fx := newQuotationFixture(map[string]int{"a": 10, "b": 10})
	res, err := fx.uc.Create(context.Background(), quotationRequest("", lineRequest("a", 1)))
	require.NoError(t, err)

	_, err = fx.uc.Update(context.Background(), res.ID, quotationRequest(entity.StatusFinalized, lineRequest("b", 5)))
	require.NoError(t, err)

	lines := fx.quotations.lines[res.ID]
	require.Len(t, lines, 1)
	assert.Equal(t, "b", lines[0].ItemID)
	assert.Equal(t, entity.StatusFinalized, fx.quotations.quotations[res.ID].Status)
	assert.Equal(t, 10, fx.items.items["a"].Stock)
	assert.Equal(t, 10, fx.items.items["b"].Stock)
}

func TestQuotationUpdate_EstadoInvalido(t *testing.T) {
	fx := newQuotationFixture(nil)
	res, err := fx.uc.Create(context.Background(), quotationRequest(""))
	require.NoError(t, err)

	// Paid es un estado exclusivo de facturas.
	_, err = fx.uc.Update(context.Background(), res.ID, quotationRequest(entity.StatusPaid))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuotationFinalize_EsIdempotente(t *testing.T) {
	fx := newQuotationFixture(nil)
	res, err := fx.uc.Create(context.Background(), quotationRequest(""))
	require.NoError(t, err)

	first, err := fx.uc.Finalize(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cotización finalizada correctamente", first.Message)

	second, err := fx.uc.Finalize(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "La cotización ya estaba finalizada", second.Message)
	assert.Equal(t, entity.StatusFinalized, fx.quotations.quotations[res.ID].Status)
}

func TestQuotationFinalize_CanceladaEsConflicto(t *testing.T) {
	fx := newQuotationFixture(nil)
	res, err := fx.uc.Create(context.Background(), quotationRequest(""))
	require.NoError(t, err)

	_, err = fx.uc.Cancel(context.Background(), res.ID)
	require.NoError(t, err)

	_, err = fx.uc.Finalize(context.Background(), res.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestQuotationCancel_EsIdempotente(t *testing.T) {
	fx := newQuotationFixture(nil)
	res, err := fx.uc.Create(context.Background(), quotationRequest(""))
	require.NoError(t, err)

	_, err = fx.uc.Finalize(context.Background(), res.ID)
	require.NoError(t, err)

	first, err := fx.uc.Cancel(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cotización cancelada", first.Message)

	second, err := fx.uc.Cancel(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "La cotización ya estaba cancelada", second.Message)
}

func TestQuotationDelete_NuncaTocaStock(t *testing.T) {
	fx := newQuotationFixture(map[string]int{"a": 10})
	res, err := fx.uc.Create(context.Background(), quotationRequest("", lineRequest("a", 4)))
	require.NoError(t, err)

	// Incluso finalizada, el borrado de una cotización no restaura nada.
	_, err = fx.uc.Finalize(context.Background(), res.ID)
	require.NoError(t, err)
	_, err = fx.uc.Delete(context.Background(), res.ID)
	require.NoError(t, err)

	assert.NotContains(t, fx.quotations.quotations, res.ID)
	assert.Equal(t, 10, fx.items.items["a"].Stock)
}

func TestQuotationGet_IncluyeLineasYCliente(t *testing.T) {
	fx := newQuotationFixture(map[string]int{"a": 10})
	res, err := fx.uc.Create(context.Background(), quotationRequest("", lineRequest("a", 2)))
	require.NoError(t, err)

	out, err := fx.uc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cliente cust-1", out.CustomerName)
	require.Len(t, out.Items, 1)

	_, err = fx.uc.Get(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
