package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/erp-core/internal/application/dto"
	"github.com/tu-usuario/erp-core/internal/domain"
	"github.com/tu-usuario/erp-core/internal/domain/entity"
	"github.com/tu-usuario/erp-core/pkg/jwt"
)

type fakeUserRepo struct {
	users map[string]*entity.User // por email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(user *entity.User) error {
	if _, ok := f.users[user.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	return f.users[email], nil
}

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func newUseCase() (*AuthUseCase, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthUseCase(repo, JWTConfig{Secret: "secreto-de-pruebas", ExpMinutes: 5, Issuer: "erp-core-test"}), repo
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{Email: "ana@acme.co", Name: "Ana", Password: "contrasena-larga"}
}

func TestRegister_EmiteTokenConRol(t *testing.T) {
	uc, repo := newUseCase()

	out, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "vendedor", out.User.Role, "rol vendedor por defecto")
	userID, role, err := jwt.Parse("secreto-de-pruebas", out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, "vendedor", role)

	saved := repo.users["ana@acme.co"]
	require.NotNil(t, saved)
	assert.NotEqual(t, "contrasena-larga", saved.PasswordHash, "la contraseña nunca se guarda en claro")
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_CamposObligatorios(t *testing.T) {
	uc, _ := newUseCase()

	in := registerRequest()
	in.Password = ""
	_, err := uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.co", Password: "contrasena-larga"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ana@acme.co", out.User.Email)
}

func TestLogin_ContrasenaIncorrecta(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@acme.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
