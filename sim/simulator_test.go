package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/tower-sim/sim/internal/testutil"
	"github.com/inference-sim/tower-sim/sim/trace"
)

// TestSimulator_GoldenDataset runs all golden cases through the cycle-accelerated path
// and checks both heights and the detected cycle.
func TestSimulator_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)

	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset contains no test cases")
	}

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			cfg := DefaultSimConfig()
			cfg.Chamber = NewChamberConfig(tc.Width, tc.SpawnX, tc.SpawnGap)
			jets := mustParse(t, tc.Jets)

			for _, want := range tc.Expected {
				res, err := Simulate(cfg, jets, want.Target)
				require.NoError(t, err)
				assert.Equal(t, want.Height, res.Height, "target %d", want.Target)

				// A repeat is confirmed one period after it is first seen.
				if tc.Cycle != nil && want.Target > tc.Cycle.Start+2*tc.Cycle.Length {
					require.NotNil(t, res.Cycle, "target %d", want.Target)
					assert.Equal(t, tc.Cycle.Start, res.Cycle.Start)
					assert.Equal(t, tc.Cycle.Length, res.Cycle.Length)
					assert.Equal(t, tc.Cycle.HeightDelta, res.Cycle.HeightDelta)
				}
			}
		})
	}
}

func TestSimulator_SampleScenario(t *testing.T) {
	jets := mustParse(t, sampleJets)

	res, err := Simulate(DefaultSimConfig(), jets, 2022)
	require.NoError(t, err)
	assert.Equal(t, int64(3068), res.Height)

	res, err = Simulate(DefaultSimConfig(), jets, 1_000_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, int64(1514285714288), res.Height)
	assert.Equal(t, int64(1_000_000_000_000), res.Metrics.SimulatedObjects+res.Metrics.SkippedObjects)
	assert.Less(t, res.Metrics.SimulatedObjects, int64(200), "most objects must be extrapolated")
}

func TestSimulator_DirectMatchesAccelerated(t *testing.T) {
	// GIVEN one direct run that traces the height after every settlement
	const upTo = 600
	jets := mustParse(t, sampleJets)
	cfg := directConfig()
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelSettlements}
	direct, err := Simulate(cfg, jets, upTo)
	require.NoError(t, err)
	require.Len(t, direct.Trace.Settlements, upTo)

	// WHEN every k is simulated through the accelerated path
	for k := int64(0); k <= upTo; k++ {
		accel, err := Simulate(DefaultSimConfig(), jets, k)
		require.NoError(t, err)

		// THEN heights are identical
		want := int64(0)
		if k > 0 {
			want = direct.Trace.Settlements[k-1].Height
		}
		if accel.Height != want {
			t.Fatalf("k=%d: accelerated height %d, direct height %d", k, accel.Height, want)
		}
	}

	// AND larger targets agree as well
	for _, k := range []int64{1000, 2022, 3001} {
		d, err := Simulate(directConfig(), jets, k)
		require.NoError(t, err)
		a, err := Simulate(DefaultSimConfig(), jets, k)
		require.NoError(t, err)
		assert.Equal(t, d.Height, a.Height, "k=%d", k)
		assert.Nil(t, d.Cycle)
		assert.NotNil(t, a.Cycle)
	}
}

// overhangJets makes the skyline repeat at objects 47 and 72 while the chamber below it
// differs, so a single fingerprint repeat predicts the wrong height.
const overhangJets = ">>>><><<<>>>>><<<<<<><<>><><>><>><"

func TestSimulator_ConfirmationRejectsFalseRepeat(t *testing.T) {
	jets := mustParse(t, overhangJets)
	direct, err := Simulate(directConfig(), jets, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(262), direct.Height)

	confirmed, err := Simulate(DefaultSimConfig(), jets, 200)
	require.NoError(t, err)
	assert.Equal(t, direct.Height, confirmed.Height)
	assert.Nil(t, confirmed.Cycle)
	assert.Equal(t, int64(1), confirmed.Metrics.RejectedCycles)

	cfg := DefaultSimConfig()
	cfg.ConfirmCycles = false
	unconfirmed, err := Simulate(cfg, jets, 200)
	require.NoError(t, err)
	require.NotNil(t, unconfirmed.Cycle)
	assert.Equal(t, Cycle{Start: 47, StartHeight: 65, Length: 25, HeightDelta: 32}, *unconfirmed.Cycle)
	assert.NotEqual(t, direct.Height, unconfirmed.Height)
}

func TestSimulator_RandomPatternsMatchDirect(t *testing.T) {
	const upTo = 1500
	gen := PatternSpec{MinLength: 1, MaxLength: 60, RightBias: 0.5}
	for seed := int64(1); seed <= 40; seed++ {
		jets, err := GenerateDeflections(NewPartitionedRNG(NewSimulationKey(seed)), gen)
		require.NoError(t, err)

		cfg := directConfig()
		cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelSettlements}
		direct, err := Simulate(cfg, jets, upTo)
		require.NoError(t, err)

		for _, k := range []int64{1, 7, 50, 333, 1000, upTo} {
			accel, err := Simulate(DefaultSimConfig(), jets, k)
			require.NoError(t, err)
			if want := direct.Trace.Settlements[k-1].Height; accel.Height != want {
				t.Fatalf("seed=%d jets=%s k=%d: accelerated height %d, direct height %d",
					seed, FormatDeflections(jets), k, accel.Height, want)
			}
		}
	}
}

func TestSimulator_HeightNonDecreasing(t *testing.T) {
	cfg := directConfig()
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelSettlements}
	res, err := Simulate(cfg, mustParse(t, sampleJets), 2022)
	require.NoError(t, err)

	prev := int64(0)
	for _, s := range res.Trace.Settlements {
		assert.GreaterOrEqual(t, s.Height, prev, "settlement %d", s.Index)
		prev = s.Height
	}
}

func TestSimulator_Determinism(t *testing.T) {
	jets := mustParse(t, sampleJets)
	for _, target := range []int64{2022, 1_000_000_000_000} {
		a, err := Simulate(DefaultSimConfig(), jets, target)
		require.NoError(t, err)
		b, err := Simulate(DefaultSimConfig(), jets, target)
		require.NoError(t, err)

		assert.Equal(t, a.Height, b.Height)
		assert.Equal(t, a.Cycle, b.Cycle)
		assert.Equal(t, a.Skip, b.Skip)
		assert.NotEqual(t, a.RunID, b.RunID)
	}
}

func TestSimulator_Boundaries(t *testing.T) {
	jets := mustParse(t, sampleJets)

	res, err := Simulate(DefaultSimConfig(), jets, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Height)
	assert.Equal(t, int64(0), res.Metrics.SimulatedObjects)

	// The first object is the horizontal bar: exactly one row high.
	s, err := NewSimulator(DefaultSimConfig(), jets)
	require.NoError(t, err)
	res, err = s.Run(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Height)
	assert.Nil(t, res.Cycle)
	assert.Equal(t, 4, s.Chamber().Occupied())
	assert.Equal(t, Profile{UntouchedDepth, UntouchedDepth, 0, 0, 0, 0, UntouchedDepth}, s.Chamber().Profile())
}

func TestSimulator_RunTwiceFails(t *testing.T) {
	s, err := NewSimulator(DefaultSimConfig(), mustParse(t, sampleJets))
	require.NoError(t, err)
	_, err = s.Run(10)
	require.NoError(t, err)
	_, err = s.Run(10)
	assert.ErrorIs(t, err, ErrAlreadyRun)
}

func TestSimulator_NegativeTarget(t *testing.T) {
	_, err := Simulate(DefaultSimConfig(), mustParse(t, sampleJets), -1)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNewSimulator_RejectsBadInputs(t *testing.T) {
	_, err := NewSimulator(DefaultSimConfig(), nil)
	assert.ErrorIs(t, err, ErrMalformedInput)

	cfg := DefaultSimConfig()
	cfg.Chamber.Width = 3
	_, err = NewSimulator(cfg, mustParse(t, sampleJets))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSimulator_TraceRecordsCycle(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelCycles}
	res, err := Simulate(cfg, mustParse(t, sampleJets), 2022)
	require.NoError(t, err)

	require.NotNil(t, res.Trace)
	assert.Empty(t, res.Trace.Settlements)
	require.Len(t, res.Trace.Cycles, 1)
	rec := res.Trace.Cycles[0]
	assert.Equal(t, res.Cycle.Length, rec.Length)
	assert.Equal(t, res.Skip.WholeCycles, rec.WholeCycles)
	assert.Equal(t, int64(2022), rec.ConfirmedAt+rec.WholeCycles*rec.Length+rec.Remainder)
	assert.Equal(t, int64(63), rec.DetectedAt)
	assert.Equal(t, int64(98), rec.ConfirmedAt)

	summary := trace.Summarize(res.Trace)
	assert.True(t, summary.CycleFound)
	assert.Equal(t, res.Metrics.SkippedObjects, summary.SkippedObjects)
}

func TestSimulator_MetricsAccountForEveryJet(t *testing.T) {
	s, err := NewSimulator(directConfig(), mustParse(t, sampleJets))
	require.NoError(t, err)
	res, err := s.Run(500)
	require.NoError(t, err)

	m := res.Metrics
	assert.Equal(t, int64(500), m.SimulatedObjects)
	assert.Equal(t, s.jets.Consumed(), m.JetsApplied+m.JetsBlocked)
	assert.Equal(t, m.JetsApplied+m.JetsBlocked, m.FallSteps+m.SimulatedObjects, "one jet per fall attempt")
	assert.Equal(t, 0, m.Fingerprints, "detection disabled")
	assert.Equal(t, s.Chamber().Occupied(), m.OccupiedCells)
}
