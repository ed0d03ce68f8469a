package engine

import (
	"testing"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolveCountry(t *testing.T) {
	exprs := []domain.CountryExpression{
		{Countries: []string{"ES", "FR"}, Expression: "first"},
		{Countries: []string{"FR", "IT"}, Expression: "second"},
	}

	t.Run("first declared entry wins", func(t *testing.T) {
		ce, ok := ResolveCountry(exprs, "FR")
		assert.True(t, ok)
		assert.Equal(t, "first", ce.Expression)
	})

	t.Run("later entry when earlier does not match", func(t *testing.T) {
		ce, ok := ResolveCountry(exprs, "IT")
		assert.True(t, ok)
		assert.Equal(t, "second", ce.Expression)
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		_, ok := ResolveCountry(exprs, "es")
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := ResolveCountry(nil, "ES")
		assert.False(t, ok)
	})
}
