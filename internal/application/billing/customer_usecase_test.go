package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/domain"
)

func TestCustomerCreate(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo)

	out, err := uc.Create(context.Background(), dto.SaveCustomerRequest{Name: "ACME S.A.S.", TaxID: "900123456-7"})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "ACME S.A.S.", out.Name)
	assert.Contains(t, repo.customers, out.ID)
}

func TestCustomerCreate_NombreObligatorio(t *testing.T) {
	uc := NewCustomerUseCase(newFakeCustomerRepo())

	_, err := uc.Create(context.Background(), dto.SaveCustomerRequest{TaxID: "900123456-7"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerUpdate_NoExiste(t *testing.T) {
	uc := NewCustomerUseCase(newFakeCustomerRepo())

	_, err := uc.Update(context.Background(), "fantasma", dto.SaveCustomerRequest{Name: "ACME"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerUpdate(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo)
	created, err := uc.Create(context.Background(), dto.SaveCustomerRequest{Name: "ACME"})
	require.NoError(t, err)

	out, err := uc.Update(context.Background(), created.ID, dto.SaveCustomerRequest{Name: "ACME Renombrada", City: "Bogotá"})
	require.NoError(t, err)

	assert.Equal(t, "ACME Renombrada", out.Name)
	assert.Equal(t, "Bogotá", repo.customers[created.ID].City)
}

func TestCustomerDelete(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo)
	created, err := uc.Create(context.Background(), dto.SaveCustomerRequest{Name: "ACME"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	assert.NotContains(t, repo.customers, created.ID)

	assert.ErrorIs(t, uc.Delete(context.Background(), created.ID), domain.ErrNotFound)
}
