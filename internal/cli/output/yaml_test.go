package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintYAML(t *testing.T) {
	data := roomSummary{ID: 3, Name: "alpha", Players: 2}

	var buf bytes.Buffer
	err := PrintYAML(&buf, data)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "id: 3")
	assert.Contains(t, out, "name: alpha")
	assert.Contains(t, out, "players: 2")
}

func TestPrintYAMLArray(t *testing.T) {
	data := []roomSummary{
		{ID: 1, Name: "alpha"},
		{ID: 2, Name: "bravo"},
	}

	var buf bytes.Buffer
	err := PrintYAML(&buf, data)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "- id: 1")
	assert.Contains(t, out, "name: bravo")
}
