package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAreaIsValid(t *testing.T) {
	for _, area := range WorkflowAreas {
		assert.True(t, area.IsValid())
	}
	assert.True(t, AreaAdmin.IsValid())
	assert.False(t, Area("lavanderia").IsValid())
	assert.False(t, Area("").IsValid())
}

func TestLegalDestinations(t *testing.T) {
	// Envios is terminal.
	assert.Empty(t, LegalDestinations(AreaEnvios))

	// Admin can reach every workflow area.
	assert.Equal(t, WorkflowAreas, LegalDestinations(AreaAdmin))

	// Downstream fan-out only.
	dests := LegalDestinations(AreaPlancha)
	assert.Equal(t, []Area{AreaCalidad, AreaOperaciones, AreaEnvios}, dests)
	assert.NotContains(t, dests, AreaCorte)
}

func TestRepositionStatusTerminal(t *testing.T) {
	assert.True(t, RepositionCompletado.IsTerminal())
	assert.True(t, RepositionEliminado.IsTerminal())
	assert.False(t, RepositionPendiente.IsTerminal())
	assert.False(t, RepositionAprobado.IsTerminal())
}
