package restock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"Restock/internal/restock"
)

func TestSignup(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	_, err := restock.Signup(log, restock.SignupInput{Email: "  "})
	require.ErrorIs(t, err, restock.ErrMissingEmail)
	assert.Zero(t, logs.Len())

	in, err := restock.Signup(log, restock.SignupInput{Email: "Fan@Example.com", Notify: true})
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", in.Email)

	entries := logs.FilterMessage("signup received").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "fan@example.com", entries[0].ContextMap()["email"])
	assert.Equal(t, true, entries[0].ContextMap()["notify"])
}
