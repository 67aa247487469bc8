package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestUser_BloqueoAlQuintoIntento(t *testing.T) {
	u := &entity.User{}
	p := entity.DefaultLockoutPolicy()

	for i := 1; i <= 4; i++ {
		locked := u.RegisterFailedLogin(t0, p)
		assert.False(t, locked, "el intento %d no debe bloquear", i)
		assert.False(t, u.IsLocked(t0))
	}

	locked := u.RegisterFailedLogin(t0, p)
	assert.True(t, locked, "el quinto intento fallido bloquea la cuenta")
	assert.Equal(t, 5, u.FailedLoginAttempts)
	require.NotNil(t, u.LockedUntil)
	assert.Equal(t, t0.Add(30*time.Minute), *u.LockedUntil)
	assert.True(t, u.IsLocked(t0.Add(29*time.Minute)))
	assert.Equal(t, 10*time.Minute, u.LockRemaining(t0.Add(20*time.Minute)))
}

func TestUser_BloqueoVencido(t *testing.T) {
	until := t0.Add(-time.Second)
	u := &entity.User{FailedLoginAttempts: 5, LockedUntil: &until}

	assert.False(t, u.IsLocked(t0), "un bloqueo vencido no bloquea")
	assert.Zero(t, u.LockRemaining(t0))

	// el contador no decae: el siguiente fallo vuelve a bloquear
	assert.True(t, u.RegisterFailedLogin(t0, entity.DefaultLockoutPolicy()))
	assert.True(t, u.IsLocked(t0))
}

func TestUser_LoginExitosoReiniciaContador(t *testing.T) {
	until := t0.Add(time.Hour)
	u := &entity.User{FailedLoginAttempts: 3, LockedUntil: &until}

	u.RegisterSuccessfulLogin(t0)

	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
	require.NotNil(t, u.LastLogin)
	assert.Equal(t, t0, *u.LastLogin)
}

func TestUser_PoliticaPersonalizada(t *testing.T) {
	u := &entity.User{}
	p := entity.LockoutPolicy{MaxAttempts: 2, Duration: time.Minute}

	assert.False(t, u.RegisterFailedLogin(t0, p))
	assert.True(t, u.RegisterFailedLogin(t0, p))
	assert.False(t, u.IsLocked(t0.Add(time.Minute)), "el bloqueo termina exactamente al vencer")
}

func TestUser_HasRole(t *testing.T) {
	u := &entity.User{RoleName: entity.RoleBodeguero}
	assert.True(t, u.HasRole(entity.RoleAdministrador, entity.RoleBodeguero))
	assert.False(t, u.HasRole(entity.RoleAdministrador))
	assert.False(t, u.IsAdmin())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana Pérez", (&entity.User{Username: "ana", Name: "Ana Pérez"}).DisplayName())
	assert.Equal(t, "ana", (&entity.User{Username: "ana", Name: "  "}).DisplayName())
}
