package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleJets is the reference jet pattern with known heights (2022 → 3068).
const sampleJets = ">>><<><>><<<>><>>><<<>>><<<><<<>><>><<>>"

func mustParse(t *testing.T, raw string) []Deflection {
	t.Helper()
	seq, err := ParseDeflections(raw)
	require.NoError(t, err)
	return seq
}

func mustShape(t *testing.T, name string, rows ...string) Shape {
	t.Helper()
	s, err := ParseShape(name, rows)
	require.NoError(t, err)
	return s
}

func directConfig() SimConfig {
	cfg := DefaultSimConfig()
	cfg.DetectCycles = false
	return cfg
}
