package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junglecut/storyarc/internal/models"
)

func TestStructureServiceBuiltins(t *testing.T) {
	svc, err := NewStructureService(nil)
	require.NoError(t, err)

	types := svc.Types()
	assert.Contains(t, types, models.StructureThreeAct)
	assert.Contains(t, types, models.StructureAristotelian)
	assert.Contains(t, types, models.StructureHerosJourney)

	current, acts := svc.Current()
	assert.Equal(t, models.StructureThreeAct, current, "3-act is the default template")
	require.Len(t, acts, 3)
	assert.Equal(t, "Setup", acts[0].Name)
	assert.InDelta(t, 0, acts[0].Start, 0.001)
	assert.InDelta(t, 100, acts[len(acts)-1].End, 0.001)
}

func TestStructureServiceSetCurrent(t *testing.T) {
	svc, err := NewStructureService(nil)
	require.NoError(t, err)

	require.NoError(t, svc.SetCurrent(models.StructureAristotelian))
	current, acts := svc.Current()
	assert.Equal(t, models.StructureAristotelian, current)
	assert.NotEmpty(t, acts)

	err = svc.SetCurrent(models.StructureType("monomyth-extended"))
	assert.Error(t, err, "unknown templates are rejected")
	current, _ = svc.Current()
	assert.Equal(t, models.StructureAristotelian, current, "selection survives a rejected switch")
}

func TestStructureServiceActsUnknown(t *testing.T) {
	svc, err := NewStructureService(nil)
	require.NoError(t, err)

	_, err = svc.Acts(models.StructureType("nope"))
	assert.Error(t, err)

	acts, err := svc.Acts(models.StructureFourAct)
	require.NoError(t, err)
	assert.Len(t, acts, 4)
}

func TestActForBoundaries(t *testing.T) {
	acts := []models.ActStructure{
		{Name: "Setup", Start: 0, End: 25},
		{Name: "Confrontation", Start: 25, End: 75},
		{Name: "Resolution", Start: 75, End: 100},
	}

	tests := []struct {
		name     string
		position float64
		want     string
	}{
		{"start of the arc", 0, "Setup"},
		{"interior", 40, "Confrontation"},
		{"shared boundary goes to the earlier act", 25, "Setup"},
		{"end of the arc", 100, "Resolution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := ActFor(acts, tt.position)
			require.NotNil(t, act)
			assert.Equal(t, tt.want, act.Name)
		})
	}

	assert.Nil(t, ActFor(acts, 120), "positions past the ranges classify nowhere")
	assert.Nil(t, ActFor(nil, 10))
}
