package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameters_FloorPlan(t *testing.T) {
	p := DefaultParameters()
	assert.Len(t, p.TableSizes, 41)
	seats := 0
	for _, s := range p.TableSizes {
		seats += s
	}
	assert.Equal(t, 23*2+11*4+6*6+10, seats)
}

func TestRateAt_PeaksAtPeakTime(t *testing.T) {
	p := DefaultParameters()
	atPeak := p.RateAt(p.PeakTime)
	assert.InDelta(t, p.LambdaBase+p.LambdaPeakMultiplier, atPeak, 1e-9)
	assert.Less(t, p.RateAt(0), atPeak)
	assert.Less(t, p.RateAt(p.Duration), atPeak)
	assert.GreaterOrEqual(t, p.RateAt(0), p.LambdaBase)
}

func TestMaxRate_DominatesCurve(t *testing.T) {
	p := DefaultParameters()
	for t0 := 0.0; t0 <= p.Duration; t0 += 1.0 {
		if p.RateAt(t0) > p.MaxRate() {
			t.Fatalf("rate at %.0f exceeds the thinning bound", t0)
		}
	}
}

func TestStationNames_FixedOrderOnValue(t *testing.T) {
	// Callable directly on the constructor's return value.
	names := DefaultParameters().StationNames()
	assert.Equal(t, []string{StationWoodGrill, StationSalad, StationSautee, StationTortilla, StationGuac}, names)
}

func TestLoadParameters_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	content := []byte("num_servers: 3\nseed: 7\nduration: 60\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	p, err := LoadParameters(path)
	require.NoError(t, err)

	assert.Equal(t, 3, p.NumServers)
	assert.Equal(t, int64(7), p.Seed)
	assert.Equal(t, 60.0, p.Duration)
	// Untouched fields keep their defaults.
	assert.Equal(t, 9, p.NumCooks)
	assert.Equal(t, 22.0, p.PricePerDish)
}

func TestLoadParameters_MissingFile(t *testing.T) {
	_, err := LoadParameters(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
