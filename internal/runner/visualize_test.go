package runner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisualize(t *testing.T) {
	r := elementGraph(t, &trace{}, "")

	text, err := r.Visualize(FormatText)
	require.NoError(t, err)
	require.Contains(t, text, "[inline:elements]")
	require.Contains(t, text, "depends on: sass:elements, compileJS:elements")
	require.Contains(t, text, "Total: 7 tasks")

	mermaid, err := r.Visualize(FormatMermaid)
	require.NoError(t, err)
	require.Contains(t, mermaid, "sass_elements --> inline_elements")

	dot, err := r.Visualize(FormatDOT)
	require.NoError(t, err)
	require.Contains(t, dot, `"compileJS:tests" -> "inline:tests";`)

	js, err := r.Visualize(FormatJSON)
	require.NoError(t, err)
	var decoded jsonGraph
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	require.Equal(t, 7, decoded.TotalTasks)
	require.Equal(t, "compileJS:elements", decoded.Tasks[0].Name)
	require.NotNil(t, decoded.Tasks[0].Dependencies)

	_, err = r.Visualize("svg")
	require.Error(t, err)
}
