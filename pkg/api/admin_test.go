package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGate(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	gate, err := NewAdminGate(hash)
	require.NoError(t, err)
	assert.NoError(t, gate.Check("hunter2"))
	assert.ErrorIs(t, gate.Check("hunter3"), ErrIncorrectCredential)
	assert.ErrorIs(t, gate.Check(""), ErrIncorrectCredential)
}

func TestAdminGateDisabled(t *testing.T) {
	gate, err := NewAdminGate("")
	require.NoError(t, err)
	assert.ErrorIs(t, gate.Check("anything"), ErrIncorrectCredential)
}

func TestAdminGateBadHash(t *testing.T) {
	_, err := NewAdminGate("pasword")
	assert.Error(t, err)

	_, err = HashPassword("")
	assert.Error(t, err)
}
