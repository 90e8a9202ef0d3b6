package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams returns a compact configuration that produces a couple dozen
// parties in a two-hour window, enough to exercise every stage.
func testParams() Parameters {
	p := DefaultParameters()
	p.TableSizes = []int{2, 2, 4, 4, 6, 10}
	p.Duration = 120
	p.LambdaBase = 0.15
	p.LambdaPeakMultiplier = 0
	p.NumServers = 2
	p.NumHosts = 1
	p.NumFoodRunners = 1
	p.NumBussers = 0
	p.NumCooks = 5
	p.CookConcurrency = 2
	p.ExpoCapacity = 1
	p.MinSnapshotInterval = 0
	p.Seed = 42
	return p
}

func TestRun_ServesPartiesAndAccruesRevenue(t *testing.T) {
	r := New(testParams())
	results := r.Run()

	require.Greater(t, results["parties_arrived"], 0.0)
	require.Greater(t, results["parties_served"], 0.0)
	assert.Greater(t, results["total_revenue"], 0.0)

	// Revenue is exactly the sum of departed parties' checks.
	var wantRevenue float64
	for _, p := range r.Parties() {
		if p.DepartureTime != nil {
			wantRevenue += p.CheckTotal
		}
	}
	assert.InDelta(t, wantRevenue, r.TotalRevenue(), 1e-9)
}

func TestRun_DeterministicForSeed(t *testing.T) {
	a := New(testParams())
	resultsA := a.Run()
	b := New(testParams())
	resultsB := b.Run()

	require.Equal(t, len(resultsA), len(resultsB))
	for k, v := range resultsA {
		assert.Equal(t, v, resultsB[k], "metric %s diverged", k)
	}

	eventsA := a.Collector().Events
	eventsB := b.Collector().Events
	require.Equal(t, len(eventsA), len(eventsB))
	for i := range eventsA {
		assert.Equal(t, eventsA[i].EventType, eventsB[i].EventType, "event %d", i)
		assert.Equal(t, eventsA[i].Timestamp, eventsB[i].Timestamp, "event %d", i)
		assert.Equal(t, eventsA[i].EntityID, eventsB[i].EntityID, "event %d", i)
	}
}

func TestRun_DifferentSeedsDiverge(t *testing.T) {
	p1 := testParams()
	p2 := testParams()
	p2.Seed = 43
	a := New(p1).Run()
	b := New(p2).Run()
	assert.NotEqual(t, a["total_revenue"], b["total_revenue"])
}

// orderedStamps lists each party's timestamps in lifecycle order; every
// adjacent non-nil pair must be non-decreasing.
func orderedStamps(p *Party) []*float64 {
	return []*float64{
		f64(p.ArrivalTime),
		p.HostQueueTime,
		p.WalkStartTime,
		p.TableAssignedTime,
		p.OrderingStart,
		p.OrderingComplete,
		p.KitchenStart,
		p.AllDishesDelivered,
		p.DiningStart,
		p.DiningComplete,
		p.PaymentStart,
		p.PaymentComplete,
		p.CleanupStart,
		p.DepartureTime,
	}
}

func TestRun_PartyTimestampsMonotone(t *testing.T) {
	r := New(testParams())
	r.Run()

	for _, p := range r.Parties() {
		stamps := orderedStamps(p)
		last := -1.0
		for i, s := range stamps {
			if s == nil {
				// Once a stage is missing, no later stage may be stamped.
				for _, rest := range stamps[i+1:] {
					assert.Nil(t, rest, "party %d: stage %d unset but a later stage is stamped", p.ID, i)
				}
				break
			}
			assert.GreaterOrEqual(t, *s, last, "party %d: stage %d went backwards", p.ID, i)
			last = *s
		}

		// Kitchen-side stamps sit between order completion and delivery.
		if p.AllDishesReady != nil {
			require.NotNil(t, p.KitchenStart)
			assert.GreaterOrEqual(t, *p.AllDishesReady, *p.KitchenStart, "party %d", p.ID)
		}
		if p.FirstDeliveryTime != nil && p.AllDishesDelivered != nil {
			assert.GreaterOrEqual(t, *p.AllDishesDelivered, *p.FirstDeliveryTime, "party %d", p.ID)
		}
	}
}

func TestRun_DiningGatedOnAllDishesDelivered(t *testing.T) {
	r := New(testParams())
	r.Run()

	sawDiner := false
	for _, p := range r.Parties() {
		if p.DiningStart == nil {
			continue
		}
		sawDiner = true
		require.NotNil(t, p.AllDishesDelivered, "party %d dined before full delivery", p.ID)
		assert.Equal(t, *p.AllDishesDelivered, *p.DiningStart, "party %d", p.ID)
		assert.GreaterOrEqual(t, p.DishesDeliveredCount, p.TotalDishes, "party %d", p.ID)
	}
	assert.True(t, sawDiner, "run produced no dining party")
}

func TestRun_OversizedPartiesNeverSeated(t *testing.T) {
	p := testParams()
	p.TableSizes = []int{2, 2, 2} // nothing seats more than two
	r := New(p)
	r.Run()

	sawOversized := false
	for _, party := range r.Parties() {
		if party.PartySize > 2 {
			sawOversized = true
			assert.Nil(t, party.TableAssignedTime, "party %d (size %d) was seated", party.ID, party.PartySize)
			assert.Equal(t, "waiting_for_table", PartyStatus(party))
		}
	}
	assert.True(t, sawOversized, "run produced no oversized party; grow the window")
}

func TestRun_DishPrepIsMaxOfComponents(t *testing.T) {
	r := New(testParams())
	r.Run()

	checked := 0
	for _, d := range r.Dishes() {
		if d.CompleteTime == nil {
			continue
		}
		checked++
		require.NotNil(t, d.PrepTime, "dish %d complete without prep time", d.ID)
		var maxComponent float64
		for _, c := range d.Components {
			require.NotNil(t, c.ActualPrepTime, "dish %d component %d", d.ID, c.ID)
			maxComponent = math.Max(maxComponent, *c.ActualPrepTime)
		}
		assert.InDelta(t, maxComponent, *d.PrepTime, 1e-9, "dish %d", d.ID)
		// Components may start staggered, so the wall-clock span only bounds
		// the parallel prep time from below.
		assert.GreaterOrEqual(t, *d.CompleteTime-*d.StartTime, maxComponent-1e-9, "dish %d", d.ID)
	}
	assert.Greater(t, checked, 0, "run completed no dishes")
}

func TestRun_StationBusySlotsWithinCapacity(t *testing.T) {
	r := New(testParams())
	r.Run()

	snapshots := r.Collector().Snapshots
	require.NotEmpty(t, snapshots)
	capacities := make(map[string]int)
	for name, s := range r.Stations() {
		capacities[name] = s.Capacity
	}
	for _, snap := range snapshots {
		for name, busy := range snap.StationBusy {
			assert.GreaterOrEqual(t, busy, 0, "t=%.2f station %s", snap.Time, name)
			assert.LessOrEqual(t, busy, capacities[name], "t=%.2f station %s", snap.Time, name)
		}
	}
}

func TestRun_SingleSlotStationsCookSequentially(t *testing.T) {
	p := testParams()
	p.NumCooks = 5 // one cook per station
	p.CookConcurrency = 1
	p.StationWeights = map[string]int{
		StationWoodGrill: 1, StationSalad: 1, StationSautee: 1, StationTortilla: 1, StationGuac: 1,
	}
	r := New(p)
	r.Run()

	byStation := make(map[string][]*DishComponent)
	for _, d := range r.Dishes() {
		for _, c := range d.Components {
			if c.StartTime != nil && c.CompleteTime != nil {
				byStation[c.StationName] = append(byStation[c.StationName], c)
			}
		}
	}
	require.NotEmpty(t, byStation)
	for name, components := range byStation {
		// Components at a one-slot station must never overlap in time.
		for i := 0; i < len(components); i++ {
			for j := i + 1; j < len(components); j++ {
				a, b := components[i], components[j]
				overlap := *a.StartTime < *b.CompleteTime && *b.StartTime < *a.CompleteTime
				assert.False(t, overlap,
					"station %s: components %d and %d overlap", name, a.ID, b.ID)
			}
		}
	}
}

func TestRun_AllDishesReadyMatchesLastExpoClear(t *testing.T) {
	r := New(testParams())
	r.Run()

	orderDishes := make(map[int][]*Dish)
	for _, d := range r.Dishes() {
		orderDishes[d.OrderID] = append(orderDishes[d.OrderID], d)
	}
	checked := 0
	for _, p := range r.Parties() {
		if p.AllDishesReady == nil {
			continue
		}
		checked++
		var orderID int
		for id, dishes := range orderDishes {
			if len(dishes) > 0 && r.orderToParty[id] == p.ID {
				orderID = id
			}
		}
		var lastClear float64
		for _, d := range orderDishes[orderID] {
			require.NotNil(t, d.ExpoCompleteTime,
				"party %d marked ready while dish %d was still in the kitchen", p.ID, d.ID)
			lastClear = math.Max(lastClear, *d.ExpoCompleteTime)
		}
		assert.InDelta(t, lastClear, *p.AllDishesReady, 1e-9, "party %d", p.ID)
	}
	assert.Greater(t, checked, 0)
}

func TestRun_ZeroBussersStillCleansTables(t *testing.T) {
	p := testParams()
	p.NumBussers = 0
	r := New(p)
	results := r.Run()

	require.Greater(t, results["parties_served"], 0.0)
	cleaned := false
	for _, party := range r.Parties() {
		if party.CleanupStart != nil {
			cleaned = true
			break
		}
	}
	assert.True(t, cleaned, "cleaning never ran with zero configured bussers")
}

func TestRun_CheckTotalsFollowPricing(t *testing.T) {
	p := testParams()
	p.DrinkSupplement = 0.25
	p.MenuCatalog = nil // every dish falls back to PricePerDish
	r := New(p)
	r.Run()

	for _, party := range r.Parties() {
		if party.TotalDishes == 0 {
			continue
		}
		want := float64(party.TotalDishes) * p.PricePerDish * 1.25
		assert.InDelta(t, want, party.CheckTotal, 1e-9, "party %d", party.ID)
	}
}

func TestRun_HostBookkeepingCountsSeatings(t *testing.T) {
	r := New(testParams())
	r.Run()

	seated := 0
	for _, p := range r.Parties() {
		if p.TableAssignedTime != nil {
			seated++
		}
	}
	require.NotEmpty(t, r.hostMembers)
	assert.Equal(t, seated, r.hostMembers[0].WorkDone)
	if seated > 0 {
		assert.Greater(t, r.hostMembers[0].BusyTime, 0.0)
	}
}

func TestGenerateArrivals_EmpiricalRateMatchesConstantCurve(t *testing.T) {
	p := DefaultParameters()
	p.LambdaBase = 0.8
	p.LambdaPeakMultiplier = 0
	p.Duration = 2000
	r := New(p)
	arrivals := r.generateArrivals()

	want := p.LambdaBase * p.Duration
	got := float64(len(arrivals))
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("arrival count = %.0f, want ≈ %.0f (within 5%%)", got, want)
	}
	for i := 1; i < len(arrivals); i++ {
		require.Greater(t, arrivals[i], arrivals[i-1])
		require.Less(t, arrivals[i], p.Duration)
	}
}

func TestGenerateArrivals_ThinningConcentratesAtPeak(t *testing.T) {
	p := DefaultParameters()
	p.LambdaBase = 0.02
	p.LambdaPeakMultiplier = 2.0
	p.PeakTime = 500
	p.PeakWidth = 100
	p.Duration = 1000
	r := New(p)
	arrivals := r.generateArrivals()
	require.NotEmpty(t, arrivals)

	nearPeak := 0
	for _, at := range arrivals {
		if math.Abs(at-p.PeakTime) <= 200 {
			nearPeak++
		}
	}
	frac := float64(nearPeak) / float64(len(arrivals))
	assert.Greater(t, frac, 0.7, "arrivals should cluster around the peak")
}

func TestFindMatchingTable_BestFit(t *testing.T) {
	p := testParams()
	p.TableSizes = []int{10, 4, 2}
	p.NumServers = 1
	r := New(p)

	tableID, zoneID, ok := r.findMatchingTable(3)
	require.True(t, ok)
	assert.Equal(t, 0, zoneID)
	assert.Equal(t, 4, r.tableIDToSize[tableID], "a 3-top should take the 4-seat table")

	_, _, ok = r.findMatchingTable(11)
	assert.False(t, ok)
}

func TestFindMatchingTable_RotatesAcrossZones(t *testing.T) {
	p := testParams()
	p.TableSizes = []int{4, 4, 4, 4}
	p.NumServers = 2
	r := New(p)

	_, zone1, ok := r.findMatchingTable(2)
	require.True(t, ok)
	_, zone2, ok := r.findMatchingTable(2)
	require.True(t, ok)
	assert.NotEqual(t, zone1, zone2, "consecutive seatings should rotate zones")
}

func TestRun_SnapshotsCarryZoneQueues(t *testing.T) {
	r := New(testParams())
	r.Run()

	snapshots := r.Collector().Snapshots
	require.NotEmpty(t, snapshots)
	last := snapshots[len(snapshots)-1]
	assert.Contains(t, last.ZoneQueues, "server_zone_0")
	assert.Contains(t, last.ZoneQueues, "server_zone_1")
	assert.Len(t, last.Tables, len(testParams().TableSizes))
	assert.Len(t, last.Stations, 5)
}

func TestResults_CarriesStationMetrics(t *testing.T) {
	p := testParams()
	r := New(p)
	results := r.Run()

	for _, name := range p.StationNames() {
		util, ok := results[name+"_utilization"]
		require.True(t, ok, "missing %s_utilization", name)
		assert.GreaterOrEqual(t, util, 0.0)
		assert.LessOrEqual(t, util, 1.0)
		_, ok = results[name+"_dishes_prepared"]
		assert.True(t, ok, "missing %s_dishes_prepared", name)
	}
	assert.LessOrEqual(t, results["avg_cook_utilization"], 1.0)
	assert.Equal(t, results["parties_with_table"]-results["parties_served"], results["parties_abandoned"])
}
