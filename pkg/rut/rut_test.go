package rut_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/pkg/rut"
)

func TestValidate_RUTValidos(t *testing.T) {
	casos := []string{
		"12345678-5",
		"76086428-5",
		"96790240-3",
		"10000013-K",
		"10000013-k", // dv en minúscula se normaliza
		"  14-0 ",
		"6-K",
	}
	for _, c := range casos {
		assert.NoError(t, rut.Validate(c), "debe aceptar %q", c)
	}
}

func TestValidate_DigitoVerificadorIncorrecto(t *testing.T) {
	err := rut.Validate("12345678-9")
	assert.ErrorIs(t, err, rut.ErrCheckDigit)

	err = rut.Validate("10000013-0")
	assert.ErrorIs(t, err, rut.ErrCheckDigit)
}

func TestValidate_FormatoInvalido(t *testing.T) {
	casos := []string{
		"12.345.678-5", // con puntos
		"123456785",    // sin guion
		"12345678-",    // sin dv
		"-5",           // sin cuerpo
		"1234A678-5",   // cuerpo no numérico
		"12345678-55",
		"12345678--5",
	}
	for _, c := range casos {
		assert.ErrorIs(t, rut.Validate(c), rut.ErrFormat, "debe rechazar %q", c)
	}
}

func TestValidate_Vacio(t *testing.T) {
	assert.ErrorIs(t, rut.Validate("   "), rut.ErrEmptyNumber)
}

func TestCheckDigit(t *testing.T) {
	dv, err := rut.CheckDigit("12345678")
	require.NoError(t, err)
	assert.Equal(t, byte('5'), dv)

	dv, err = rut.CheckDigit("10000004")
	require.NoError(t, err)
	assert.Equal(t, byte('0'), dv, "resto 11 se representa con 0")

	dv, err = rut.CheckDigit("10000013")
	require.NoError(t, err)
	assert.Equal(t, byte('K'), dv, "resto 10 se representa con K")

	_, err = rut.CheckDigit("12a")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	s, err := rut.Format("20202020")
	require.NoError(t, err)
	assert.Equal(t, "20202020-8", s)
	assert.NoError(t, rut.Validate(s))
}
