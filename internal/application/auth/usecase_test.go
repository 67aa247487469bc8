package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/session"
	"github.com/jhoicas/dulceria-api/internal/testutil"
)

const (
	testSecret   = "test-secret-key-for-unit-tests"
	testPassword = "Dulce#2024"
)

type fixture struct {
	store  *testutil.Store
	mailer *testutil.Mailer
	uc     *auth.AuthUseCase
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  testutil.NewStore(),
		mailer: &testutil.Mailer{},
		now:    time.Now(),
	}
	f.uc = auth.NewAuthUseCase(f.store.Users, f.store.Tokens, session.NewMemoryStore(), f.mailer, auth.Config{
		JWTSecret:          testSecret,
		JWTIssuer:          "dulceria-test",
		TokenTTL:           time.Hour,
		Lockout:            entity.DefaultLockoutPolicy(),
		ResetTokenTTL:      5 * time.Minute,
		ResetURL:           "http://localhost/reset-password",
		PasswordChangePath: "/reset-password",
		HomePath:           "/dashboard",
	}, nil).WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) login(user, pw string) (*dto.LoginResponse, error) {
	return f.uc.Login(context.Background(), dto.LoginRequest{Username: user, Password: pw})
}

func (f *fixture) reload(t *testing.T, id string) *entity.User {
	t.Helper()
	u, err := f.store.Users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Login y bloqueo
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)

	out, err := f.login("ANA", testPassword)
	require.NoError(t, err, "el username no distingue mayúsculas")
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "/dashboard", out.Redirect)
	assert.Equal(t, entity.RoleVendedor, out.User.Role)

	stored := f.reload(t, u.ID)
	require.NotNil(t, stored.LastLogin)
}

func TestLogin_PorEmail(t *testing.T) {
	f := newFixture(t)
	f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)

	_, err := f.login("ana@dulceria.cl", testPassword)
	assert.NoError(t, err)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.login("nadie", testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_BloqueoTrasCincoFallos(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)

	for i := 1; i <= 4; i++ {
		_, err := f.login("ana", "incorrecta")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials, "intento %d", i)
	}
	assert.Equal(t, 4, f.reload(t, u.ID).FailedLoginAttempts)

	_, err := f.login("ana", "incorrecta")
	var locked *domain.LockedError
	require.ErrorAs(t, err, &locked, "el quinto fallo bloquea la cuenta")
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
	assert.Equal(t, 30, locked.RemainingMinutes())

	// contraseña correcta durante el bloqueo: sigue rechazada y no suma intentos
	f.now = f.now.Add(10 * time.Minute)
	_, err = f.login("ana", testPassword)
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, 20, locked.RemainingMinutes())
	assert.Equal(t, 5, f.reload(t, u.ID).FailedLoginAttempts)
}

func TestLogin_DesbloqueoAutomaticoYReinicio(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	for i := 0; i < 5; i++ {
		_, _ = f.login("ana", "incorrecta")
	}

	f.now = f.now.Add(31 * time.Minute)
	_, err := f.login("ana", testPassword)
	require.NoError(t, err, "vencido el bloqueo el login correcto funciona")

	stored := f.reload(t, u.ID)
	assert.Zero(t, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockedUntil)
}

func TestLogin_FalloTrasVencerBloqueoVuelveABloquear(t *testing.T) {
	f := newFixture(t)
	f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	for i := 0; i < 5; i++ {
		_, _ = f.login("ana", "incorrecta")
	}

	f.now = f.now.Add(31 * time.Minute)
	_, err := f.login("ana", "incorrecta")
	assert.ErrorIs(t, err, domain.ErrAccountLocked, "el contador no decae con el tiempo")
}

func TestLogin_CuentaInactiva(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	u.IsActive = false
	require.NoError(t, f.store.Users.Update(context.Background(), u))

	_, err := f.login("ana", testPassword)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)

	_, err = f.login("ana", "incorrecta")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "con contraseña incorrecta no se revela el estado")
}

func TestLogin_CambioObligatorioRedirige(t *testing.T) {
	f := newFixture(t)
	f.store.SeedUser("nuevo", "nuevo@dulceria.cl", testPassword, entity.RoleBodeguero, true)

	out, err := f.login("nuevo", testPassword)
	require.NoError(t, err)
	assert.True(t, out.MustChangePassword)
	assert.Equal(t, "/reset-password", out.Redirect)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthenticate_YLogout(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	out, err := f.login("ana", testPassword)
	require.NoError(t, err)

	ctx := context.Background()
	user, claims, err := f.uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)

	require.NoError(t, f.uc.Logout(ctx, claims))
	_, _, err = f.uc.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un token revocado ya no autentica")
}

func TestAuthenticate_UsuarioDesactivado(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	out, err := f.login("ana", testPassword)
	require.NoError(t, err)

	u = f.reload(t, u.ID)
	u.IsActive = false
	require.NoError(t, f.store.Users.Update(context.Background(), u))

	_, _, err = f.uc.Authenticate(context.Background(), out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.uc.Authenticate(context.Background(), "no.es.jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio de contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword_LimpiaFlag(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("nuevo", "nuevo@dulceria.cl", testPassword, entity.RoleBodeguero, true)

	err := f.uc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: "Caramelo$99", ConfirmPassword: "Caramelo$99",
	})
	require.NoError(t, err)

	stored := f.reload(t, u.ID)
	assert.False(t, stored.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Caramelo$99")))
}

func TestChangePassword_PoliticaIncumplidaNoLimpiaFlag(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("nuevo", "nuevo@dulceria.cl", testPassword, entity.RoleBodeguero, true)

	err := f.uc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: "caramelo", ConfirmPassword: "caramelo",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields["new_password"], 3, "falta mayúscula, número y carácter especial")
	assert.True(t, f.reload(t, u.ID).MustChangePassword, "el flag sólo se limpia con un cambio válido")
}

func TestChangePassword_ActualIncorrecta(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("nuevo", "nuevo@dulceria.cl", testPassword, entity.RoleBodeguero, true)

	err := f.uc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "otra", NewPassword: "Caramelo$99", ConfirmPassword: "Caramelo$99",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")
}

func TestChangePassword_NoCoinciden(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("nuevo", "nuevo@dulceria.cl", testPassword, entity.RoleBodeguero, true)

	err := f.uc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: "Caramelo$99", ConfirmPassword: "Caramelo$98",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "confirm_password")
}

func TestChangePassword_IgualALaActual(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("nuevo", "nuevo@dulceria.cl", testPassword, entity.RoleBodeguero, true)

	err := f.uc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: testPassword, ConfirmPassword: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.reload(t, u.ID).MustChangePassword)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recuperación por correo
// ──────────────────────────────────────────────────────────────────────────────

func TestForgotPassword_EnviaEnlace(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)

	require.NoError(t, f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ANA@dulceria.cl"}))

	msg, ok := f.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, u.Email, msg.To)
	assert.Contains(t, msg.Link, "http://localhost/reset-password?token=")
	assert.Equal(t, 5*time.Minute, msg.ExpiresIn)
}

func TestForgotPassword_EmailDesconocidoNoRevela(t *testing.T) {
	f := newFixture(t)
	err := f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "x@y.cl"})
	assert.NoError(t, err)
	assert.Empty(t, f.mailer.Sent)
}

func TestForgotPassword_FalloDeCorreoNoRevela(t *testing.T) {
	f := newFixture(t)
	f.mailer.Fail = true
	f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)

	assert.NoError(t, f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ana@dulceria.cl"}))
}

func TestForgotPassword_InvalidaTokensAnteriores(t *testing.T) {
	f := newFixture(t)
	f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	ctx := context.Background()

	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ana@dulceria.cl"}))
	first := tokenFromLink(t, f)
	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ana@dulceria.cl"}))

	assert.ErrorIs(t, f.uc.ValidateResetToken(ctx, first), domain.ErrTokenInvalid)
	assert.NoError(t, f.uc.ValidateResetToken(ctx, tokenFromLink(t, f)))
}

func TestResetPassword_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, true)
	for i := 0; i < 5; i++ {
		_, _ = f.login("ana", "incorrecta")
	}
	ctx := context.Background()
	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ana@dulceria.cl"}))
	token := tokenFromLink(t, f)

	err := f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, NewPassword: "Gomita%77", ConfirmPassword: "Gomita%77"})
	require.NoError(t, err)

	stored := f.reload(t, u.ID)
	assert.False(t, stored.MustChangePassword)
	assert.Nil(t, stored.LockedUntil, "el restablecimiento desbloquea la cuenta")

	_, err = f.login("ana", "Gomita%77")
	assert.NoError(t, err)

	// un solo uso
	err = f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, NewPassword: "Gomita%78", ConfirmPassword: "Gomita%78"})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

// raceTx simula otra petición que consume el token justo antes de la transacción.
type raceTx struct {
	store   *testutil.Store
	tokenID string
	calls   int
}

func (r *raceTx) RunAuth(ctx context.Context, fn func(repository.UserRepository, repository.PasswordResetTokenRepository) error) error {
	r.calls++
	if r.tokenID != "" {
		_, _ = r.store.Tokens.Claim(ctx, r.tokenID, time.Now())
	}
	return fn(r.store.Users, r.store.Tokens)
}

func TestResetPassword_TokenConsumidoPorOtraPeticion(t *testing.T) {
	f := newFixture(t)
	u := f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	ctx := context.Background()
	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ana@dulceria.cl"}))
	token := tokenFromLink(t, f)
	tokens := f.store.Tokens.All()
	require.Len(t, tokens, 1)

	tx := &raceTx{store: f.store, tokenID: tokens[0].ID}
	f.uc.WithTx(tx)
	err := f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, NewPassword: "Gomita%77", ConfirmPassword: "Gomita%77"})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	assert.Equal(t, 1, tx.calls)

	stored := f.reload(t, u.ID)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash, "la contraseña no cambia si el token ya fue usado")
}

func TestResetPassword_ConcurrenteSoloUnaGana(t *testing.T) {
	f := newFixture(t)
	f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	ctx := context.Background()
	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ana@dulceria.cl"}))
	token := tokenFromLink(t, f)

	const n = 4
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, NewPassword: "Gomita%77", ConfirmPassword: "Gomita%77"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	}
}

func TestResetPassword_TokenVencido(t *testing.T) {
	f := newFixture(t)
	f.store.SeedUser("ana", "ana@dulceria.cl", testPassword, entity.RoleVendedor, false)
	ctx := context.Background()
	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ana@dulceria.cl"}))
	token := tokenFromLink(t, f)

	f.now = f.now.Add(6 * time.Minute)
	err := f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, NewPassword: "Gomita%77", ConfirmPassword: "Gomita%77"})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestCleanupTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.now

	vencido := entity.NewPasswordResetToken("u1", now.Add(-time.Hour), 5*time.Minute)
	usadoAntiguo := entity.NewPasswordResetToken("u1", now.Add(-8*24*time.Hour), 30*24*time.Hour)
	usadoAntiguo.MarkUsed(now.Add(-8 * 24 * time.Hour))
	usadoReciente := entity.NewPasswordResetToken("u1", now.Add(-time.Minute), time.Hour)
	usadoReciente.MarkUsed(now)
	vigente := entity.NewPasswordResetToken("u1", now, 5*time.Minute)
	for _, tok := range []*entity.PasswordResetToken{vencido, usadoAntiguo, usadoReciente, vigente} {
		require.NoError(t, f.store.Tokens.Create(ctx, tok))
	}

	expired, used, err := f.uc.CleanupTokens(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Equal(t, int64(1), used)
	assert.Len(t, f.store.Tokens.All(), 2)
}

func tokenFromLink(t *testing.T, f *fixture) string {
	t.Helper()
	msg, ok := f.mailer.Last()
	require.True(t, ok, "debe haberse enviado un correo")
	_, token, found := strings.Cut(msg.Link, "?token=")
	require.True(t, found, "enlace sin token: %s", msg.Link)
	return token
}
