// Package testutil provides shared test infrastructure for the tower simulator.
// It consolidates golden dataset types and helpers used across sim/ and cmd/ tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one deflection pattern with expected heights for several targets.
type GoldenTestCase struct {
	Name     string         `json:"name"`
	Jets     string         `json:"jets"`
	Width    int            `json:"width"`
	SpawnX   int            `json:"spawn_x"`
	SpawnGap int            `json:"spawn_gap"`
	Expected []GoldenHeight `json:"expected"`
	Cycle    *GoldenCycle   `json:"cycle,omitempty"`
}

// GoldenHeight is the expected height after Target objects.
type GoldenHeight struct {
	Target int64 `json:"target"`
	Height int64 `json:"height"`
}

// GoldenCycle is the expected first repeat for the pattern.
type GoldenCycle struct {
	Start       int64 `json:"start"`
	Length      int64 `json:"length"`
	HeightDelta int64 `json:"height_delta"`
}

// RepoPath resolves a path relative to the repository root.
func RepoPath(t *testing.T, elem ...string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root
	root := filepath.Join(filepath.Dir(thisFile), "..", "..", "..")
	return filepath.Join(append([]string{root}, elem...)...)
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	data, err := os.ReadFile(RepoPath(t, "testdata", "goldendataset.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}
