package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApportionCooks_SumsToTotal(t *testing.T) {
	names := []string{"a", "b", "c"}
	weights := map[string]int{"a": 2, "b": 3, "c": 5}
	got := ApportionCooks(10, names, weights)
	sum := 0
	for _, n := range got {
		sum += n
	}
	assert.Equal(t, 10, sum)
	assert.Equal(t, 2, got["a"])
	assert.Equal(t, 3, got["b"])
	assert.Equal(t, 5, got["c"])
}

func TestApportionCooks_EveryStationGetsAtLeastOne(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	weights := map[string]int{"a": 100, "b": 1, "c": 1, "d": 1, "e": 1}
	got := ApportionCooks(5, names, weights)
	for _, name := range names {
		assert.GreaterOrEqual(t, got[name], 1, "station %s", name)
	}
}

func TestApportionCooks_DefaultKitchen(t *testing.T) {
	p := DefaultParameters()
	got := ApportionCooks(p.NumCooks, p.StationNames(), p.StationWeights)
	sum := 0
	for _, n := range got {
		sum += n
	}
	assert.Equal(t, 9, sum)
	// Weights 2:3:2:3:2 over 9 cooks.
	assert.Equal(t, 2, got[StationSautee])
	assert.Equal(t, 2, got[StationWoodGrill])
}

func TestApportionCooks_TiesBreakByDescendingName(t *testing.T) {
	names := []string{"alpha", "beta"}
	weights := map[string]int{"alpha": 1, "beta": 1}
	// One leftover cook with identical remainders goes to the later name,
	// independent of declaration order.
	got := ApportionCooks(3, names, weights)
	assert.Equal(t, 1, got["alpha"])
	assert.Equal(t, 2, got["beta"])

	got = ApportionCooks(3, []string{"beta", "alpha"}, weights)
	assert.Equal(t, 1, got["alpha"])
	assert.Equal(t, 2, got["beta"])
}

func TestApportionCooks_MinimumFloorsCanOvershoot(t *testing.T) {
	// With fewer cooks than stations the min-1 floors exceed the total;
	// the overshoot is accepted rather than corrected.
	names := []string{"a", "b", "c", "d", "e"}
	weights := map[string]int{"a": 100, "b": 1, "c": 1, "d": 1, "e": 1}
	got := ApportionCooks(3, names, weights)
	sum := 0
	for _, name := range names {
		assert.GreaterOrEqual(t, got[name], 1, "station %s", name)
		sum += got[name]
	}
	assert.Greater(t, sum, 3)
}

func TestApportionCooks_ZeroWeightsSplitEvenly(t *testing.T) {
	names := []string{"a", "b", "c"}
	got := ApportionCooks(6, names, map[string]int{})
	assert.Equal(t, 2, got["a"])
	assert.Equal(t, 2, got["b"])
	assert.Equal(t, 2, got["c"])
}

func TestAssignZones_RoundRobin(t *testing.T) {
	tables := []int{0, 1, 2, 3, 4, 5, 6}
	got := AssignZones(tables, 3)
	assert.Equal(t, []int{0, 3, 6}, got[0])
	assert.Equal(t, []int{1, 4}, got[1])
	assert.Equal(t, []int{2, 5}, got[2])
}

func TestAssignZones_SingleZoneGetsEverything(t *testing.T) {
	tables := []int{0, 1, 2}
	got := AssignZones(tables, 1)
	assert.Equal(t, []int{0, 1, 2}, got[0])
}
