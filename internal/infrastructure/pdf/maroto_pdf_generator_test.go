package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/erp-core/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "0",
		"950":        "950",
		"1234":       "1.234",
		"1234.5":     "1.234.5",
		"1190000.00": "1.190.000.00",
		"45000":      "45.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(in), "formatMoney(%q)", in)
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Borrador", statusLabel(entity.StatusDraft))
	assert.Equal(t, "Finalizada", statusLabel(entity.StatusFinalized))
	assert.Equal(t, "Pagada", statusLabel(entity.StatusPaid))
	assert.Equal(t, "Anulada", statusLabel(entity.StatusCancelled))
	assert.Equal(t, "Otro", statusLabel("Otro"), "un estado desconocido se muestra tal cual")
}

func TestGenerateInvoicePDF(t *testing.T) {
	gen := NewMarotoPDFGenerator("Ferretería El Tornillo")
	due := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		ID:        "inv-1",
		Number:    "INV-0001",
		Date:      time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		DueDate:   &due,
		Subtotal:  decimal.NewFromInt(100000),
		TaxAmount: decimal.NewFromInt(19000),
		Total:     decimal.NewFromInt(119000),
		Status:    entity.StatusFinalized,
		Notes:     "Entrega en obra",
	}
	customer := &entity.Customer{Name: "ACME S.A.S.", TaxID: "900123456-7", City: "Bogotá"}
	lines := []*entity.DocumentLine{
		{ItemName: "Tornillo 3mm", Quantity: 100, UnitPrice: decimal.NewFromInt(1000), Total: decimal.NewFromInt(100000)},
	}

	out, err := gen.GenerateInvoicePDF(context.Background(), inv, customer, lines)
	require.NoError(t, err)

	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]), "el resultado debe ser un PDF válido")
}

func TestGenerateInvoicePDF_SinCliente(t *testing.T) {
	gen := NewMarotoPDFGenerator("Ferretería El Tornillo")
	inv := &entity.Invoice{
		ID:     "inv-2",
		Number: "INV-0002",
		Date:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Status: entity.StatusDraft,
	}

	// Cliente borrado: el documento igual se genera con el nombre genérico.
	out, err := gen.GenerateInvoicePDF(context.Background(), inv, nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
