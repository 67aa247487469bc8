// Package rut valida el Rol Único Tributario chileno usado como identificador de proveedores.
package rut

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFormat      = errors.New("formato de RUT inválido. Use el formato 12345678-5")
	ErrCheckDigit  = errors.New("el RUT ingresado no es válido")
	ErrEmptyNumber = errors.New("el RUT es obligatorio")
)

// Normalize quita espacios y pasa el dígito verificador a mayúscula ("12345678-k" -> "12345678-K").
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate comprueba formato "cuerpo-dv" (sin puntos) y el dígito verificador módulo 11.
func Validate(s string) error {
	s = Normalize(s)
	if s == "" {
		return ErrEmptyNumber
	}
	body, dv, ok := strings.Cut(s, "-")
	if !ok || body == "" || len(dv) != 1 || strings.Contains(dv, "-") {
		return ErrFormat
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return ErrFormat
		}
	}
	expected, err := CheckDigit(body)
	if err != nil {
		return err
	}
	if dv[0] != expected {
		return ErrCheckDigit
	}
	return nil
}

// CheckDigit calcula el dígito verificador para el cuerpo numérico del RUT.
// Factores 2..7 desde la derecha; 11 -> '0', 10 -> 'K'.
func CheckDigit(body string) (byte, error) {
	if body == "" {
		return 0, ErrEmptyNumber
	}
	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("rut: carácter no numérico %q", c)
		}
		sum += int(c-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + r), nil
	}
}

// Format arma el RUT completo "cuerpo-dv" a partir del cuerpo.
func Format(body string) (string, error) {
	dv, err := CheckDigit(body)
	if err != nil {
		return "", err
	}
	return body + "-" + string(dv), nil
}
