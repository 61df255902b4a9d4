package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-orders/internal/shop/domain/models"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	m := NewManager("secret")

	session := models.Session{
		UserID:   42,
		UID:      "u-42",
		Username: "lina",
		Role:     models.RoleCashier,
	}

	signed, err := m.Sign(session)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	got, err := m.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewManager("secret-a").Sign(models.Session{UserID: 1})
	require.NoError(t, err)

	_, err = NewManager("secret-b").Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("secret")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}
