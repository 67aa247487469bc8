// Package password concentra las reglas de composición de contraseñas y la
// generación de contraseñas temporales.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"unicode"
)

// Policy reglas de composición.
type Policy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// DefaultPolicy mínimo 8 caracteres con mayúscula, minúscula, dígito y carácter especial.
func DefaultPolicy() Policy {
	return Policy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true, RequireSpecial: true}
}

// Check devuelve la lista de reglas incumplidas (vacía si la contraseña es válida).
func (p Policy) Check(pw string) []string {
	var upper, lower, digit, special bool
	length := 0
	for _, r := range pw {
		length++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	var failed []string
	if length < p.MinLength {
		failed = append(failed, fmt.Sprintf("La contraseña debe tener al menos %d caracteres.", p.MinLength))
	}
	if p.RequireUpper && !upper {
		failed = append(failed, "La contraseña debe incluir al menos una letra mayúscula.")
	}
	if p.RequireLower && !lower {
		failed = append(failed, "La contraseña debe incluir al menos una letra minúscula.")
	}
	if p.RequireDigit && !digit {
		failed = append(failed, "La contraseña debe incluir al menos un número.")
	}
	if p.RequireSpecial && !special {
		failed = append(failed, "La contraseña debe incluir al menos un carácter especial.")
	}
	return failed
}

const (
	upperSet   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerSet   = "abcdefghijkmnpqrstuvwxyz"
	digitSet   = "23456789"
	specialSet = "!@#$%&*?-_"
)

// Temporary genera una contraseña aleatoria de longitud n que cumple DefaultPolicy.
func Temporary(n int) (string, error) {
	if n < 8 {
		n = 8
	}
	sets := []string{upperSet, lowerSet, digitSet, specialSet}
	all := upperSet + lowerSet + digitSet + specialSet

	out := make([]byte, n)
	for i := range out {
		set := all
		if i < len(sets) {
			set = sets[i]
		}
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	// mezcla Fisher-Yates para no dejar las clases obligatorias al inicio
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("password: aleatoriedad: %w", err)
		}
		k := int(j.Int64())
		out[i], out[k] = out[k], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("password: aleatoriedad: %w", err)
	}
	return set[n.Int64()], nil
}
