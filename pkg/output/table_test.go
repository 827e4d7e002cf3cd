package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRender(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := NewTableTo(&buf).
		WithHeaders("#", "NAME", "STATUS").
		AddRow("1", "alpha", "OK").
		AddRow("2", "beta", "FAIL").
		Render()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "----")
	assert.Contains(t, lines[2], "alpha")
	assert.Contains(t, lines[3], "FAIL")
}

func TestTableRenderDeterministic(t *testing.T) {
	t.Parallel()
	render := func() string {
		var buf bytes.Buffer
		err := NewTableTo(&buf).
			WithHeaders("A", "B").
			AddRows([][]string{{"one", "two"}, {"three", "four"}}).
			Render()
		require.NoError(t, err)
		return buf.String()
	}
	assert.Equal(t, render(), render())
}

func TestTableRenderNoHeaders(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewTableTo(&buf).AddRow("solo").Render())
	assert.Equal(t, "solo\n", buf.String())
}
