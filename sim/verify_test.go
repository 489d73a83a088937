package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestVerify_SampleHasNoMismatches(t *testing.T) {
	defer goleak.VerifyNone(t)

	report, err := Verify(context.Background(), DefaultSimConfig(), mustParse(t, sampleJets), []int64{0, 1, 63, 150, 500, 2022}, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Checked)
	assert.Equal(t, 3, report.Skipped, "only targets at least one period past #98 skip")
	assert.Empty(t, report.Mismatches)
}

func TestVerify_ReportsUnconfirmedFalseRepeat(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := DefaultSimConfig()
	cfg.ConfirmCycles = false
	report, err := Verify(context.Background(), cfg, mustParse(t, overhangJets), []int64{50, 200}, 2)
	require.NoError(t, err)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, Mismatch{Target: 200, Direct: 262, Accelerated: 261}, report.Mismatches[0])
}

func TestVerify_Errors(t *testing.T) {
	_, err := Verify(context.Background(), DefaultSimConfig(), mustParse(t, sampleJets), []int64{5, -1}, 1)
	assert.ErrorIs(t, err, ErrConfiguration)

	report, err := Verify(context.Background(), DefaultSimConfig(), mustParse(t, sampleJets), nil, 1)
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
}
