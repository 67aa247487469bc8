package entity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

func TestPasswordResetToken_Vigencia(t *testing.T) {
	tok := entity.NewPasswordResetToken("u-1", t0, 0)

	_, err := uuid.Parse(tok.Token)
	require.NoError(t, err, "el token es un UUID")
	assert.Equal(t, t0.Add(5*time.Minute), tok.ExpiresAt, "vigencia por defecto de 5 minutos")

	assert.True(t, tok.IsValid(t0.Add(4*time.Minute)))
	assert.False(t, tok.IsValid(t0.Add(5*time.Minute)), "vence exactamente a los 5 minutos")
}

func TestPasswordResetToken_UnSoloUso(t *testing.T) {
	tok := entity.NewPasswordResetToken("u-1", t0, time.Hour)
	tok.MarkUsed(t0.Add(time.Minute))

	assert.True(t, tok.IsUsed())
	assert.False(t, tok.IsValid(t0.Add(2*time.Minute)))
}
