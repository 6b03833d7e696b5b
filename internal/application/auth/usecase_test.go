package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/retail-pos/internal/application/auth"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/memory"
	pkgjwt "github.com/tu-usuario/retail-pos/pkg/jwt"
)

const testTenantID = "00000000-0000-0000-0000-0000000000t1"

func newAuthEnv(t *testing.T) (*memory.Store, *auth.AuthUseCase) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Tenants.Create(&entity.Tenant{ID: testTenantID, Name: "Tienda Test"}))
	uc := auth.NewAuthUseCase(store.Users, store.Tenants, auth.JWTConfig{
		Secret:     "secreto-de-test",
		ExpMinutes: 60,
		Issuer:     "retail-pos-test",
	})
	return store, uc
}

func registerReq(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		TenantID: testTenantID,
		Email:    email,
		Password: "clave123",
		Name:     "Usuario Test",
		Role:     entity.RoleVendedor,
	}
}

func TestRegisterUser_CreaUsuarioActivo(t *testing.T) {
	_, uc := newAuthEnv(t)

	resp, err := uc.RegisterUser(registerReq("ana@tienda.co"))
	require.NoError(t, err)
	assert.Equal(t, "ana@tienda.co", resp.Email)
	assert.Equal(t, entity.RoleVendedor, resp.Role)
	assert.Equal(t, "active", resp.Status)
}

func TestRegisterUser_EmailDuplicadoEnTenant(t *testing.T) {
	_, uc := newAuthEnv(t)

	_, err := uc.RegisterUser(registerReq("ana@tienda.co"))
	require.NoError(t, err)

	_, err = uc.RegisterUser(registerReq("ana@tienda.co"))
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_TenantInexistente(t *testing.T) {
	_, uc := newAuthEnv(t)

	in := registerReq("ana@tienda.co")
	in.TenantID = "no-existe"
	_, err := uc.RegisterUser(in)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterUser_RolDesconocidoRechazado(t *testing.T) {
	_, uc := newAuthEnv(t)

	in := registerReq("ana@tienda.co")
	in.Role = "superusuario"
	_, err := uc.RegisterUser(in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_DevuelveTokenConClaims(t *testing.T) {
	_, uc := newAuthEnv(t)
	reg, err := uc.RegisterUser(registerReq("ana@tienda.co"))
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@tienda.co", Password: "clave123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, tenantID, role, err := pkgjwt.Parse("secreto-de-test", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, testTenantID, tenantID)
	assert.Equal(t, entity.RoleVendedor, role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	_, uc := newAuthEnv(t)
	_, err := uc.RegisterUser(registerReq("ana@tienda.co"))
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@tienda.co", Password: "otra"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	_, uc := newAuthEnv(t)
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@tienda.co", Password: "clave123"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioDeshabilitado(t *testing.T) {
	store, uc := newAuthEnv(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("clave123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(&entity.User{
		ID:           "u-disabled",
		TenantID:     testTenantID,
		Email:        "ex@tienda.co",
		PasswordHash: string(hash),
		Role:         entity.RoleVendedor,
		Status:       "disabled",
	}))

	_, err = uc.Login(dto.LoginRequest{Email: "ex@tienda.co", Password: "clave123"})
	require.ErrorIs(t, err, domain.ErrForbidden)
}
