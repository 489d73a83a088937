package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Print_JSONBlock(t *testing.T) {
	// GIVEN metrics from a finished run
	m := Metrics{SimulatedObjects: 90, SkippedObjects: 910, JetsApplied: 400, JetsBlocked: 300, FallSteps: 610, Fingerprints: 63, Duration: 1500 * time.Millisecond}

	// WHEN printed
	var buf bytes.Buffer
	require.NoError(t, m.Print(&buf, 1000))

	// THEN a header precedes a JSON object carrying every counter
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "=== Simulation Metrics ===\n"))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(out, "=== Simulation Metrics ===\n")), &decoded))
	assert.Equal(t, float64(1000), decoded["target"])
	assert.Equal(t, float64(910), decoded["skipped_objects"])
	assert.Equal(t, float64(63), decoded["fingerprints"])
	assert.Equal(t, 1.5, decoded["simulation_duration_s"])
	assert.NotContains(t, decoded, "Duration")
}
