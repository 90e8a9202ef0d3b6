package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/restaurant-sim/restaurant-sim/sim/kernel"
	"github.com/restaurant-sim/restaurant-sim/sim/trace"
)

// hasAvailableCook reports whether any cook at the station can take another
// component.
func (r *Restaurant) hasAvailableCook(stationName string) bool {
	for _, n := range r.stations[stationName].cookCounts {
		if n < r.p.CookConcurrency {
			return true
		}
	}
	return false
}

// assignComponentToCook binds a component to the first cook with spare
// concurrency. The dispatcher checks availability before starting a cook
// proc, so a miss here is a scheduler bug, not an operational state.
func (r *Restaurant) assignComponentToCook(stationName string) int {
	counts := r.stations[stationName].cookCounts
	for i, n := range counts {
		if n < r.p.CookConcurrency {
			counts[i]++
			return i
		}
	}
	panic(fmt.Sprintf("no available cook at station %s", stationName))
}

// releaseComponentFromCook frees one concurrency slot and wakes the station
// dispatcher through the self-rearming cook-availability signal.
func (r *Restaurant) releaseComponentFromCook(stationName string, cookIdx int) {
	r.stations[stationName].cookCounts[cookIdx]--
	sig := r.cookAvail[stationName]
	if !sig.Fired() {
		sig.Fire()
		r.cookAvail[stationName] = r.kernel.NewSignal()
	}
}

// stationDispatcher drains the station queue while both a busy slot and a
// cook are free, spawning one cook proc per component. It parks when the
// queue is empty or capacity is exhausted, waking on either a new component
// or a freed cook.
func (r *Restaurant) stationDispatcher(p *kernel.Proc, stationName string) {
	station := r.stations[stationName]
	for {
		processedAny := false
		for station.BusySlots < station.Capacity &&
			len(r.stationQueues[stationName]) > 0 &&
			r.hasAvailableCook(stationName) {
			component := r.stationQueues[stationName][0]
			r.stationQueues[stationName] = r.stationQueues[stationName][1:]
			station.BusySlots++
			if station.ActiveSince == nil {
				station.ActiveSince = f64(p.Now())
			}
			r.kernel.Go("cook_"+stationName, func(cp *kernel.Proc) {
				r.cookComponent(cp, station, component)
			})
			processedAny = true
		}
		if processedAny {
			p.Sleep(0) // let the cook procs start
		}
		if len(r.stationQueues[stationName]) == 0 ||
			station.BusySlots >= station.Capacity ||
			!r.hasAvailableCook(stationName) {
			trig := r.stationTrigs[stationName]
			trig.waiting = true
			p.WaitAny(trig.sig, r.cookAvail[stationName])
			trig.waiting = false
			trig.sig = r.kernel.NewSignal()
		}
	}
}

// cookComponent prepares one component on a bound cook: a lognormal prep
// sleep, then slot release, station bookkeeping, and dish-completion
// tracking. The dish starts when its first component starts.
func (r *Restaurant) cookComponent(p *kernel.Proc, station *Station, component *DishComponent) {
	cookIdx := r.assignComponentToCook(station.Name)
	component.StartTime = f64(p.Now())
	cookStart := p.Now()

	dish := r.dishByID[component.DishID]
	if dish != nil && dish.StartTime == nil {
		dish.StartTime = f64(p.Now())
		if _, ok := r.firstDishStartTimes[component.OrderID]; !ok {
			r.firstDishStartTimes[component.OrderID] = p.Now()
		}
		r.event(trace.EventDishStarted, dish.ID, "queued", "cooking", map[string]any{
			"dish_type": dish.DishType,
			"order_id":  dish.OrderID,
			"station":   station.Name,
		})
	}

	prepTime := r.sampler.LogNormal(component.PrepTimeMu, component.PrepTimeSigma)
	component.ActualPrepTime = f64(prepTime)
	p.Sleep(prepTime)

	station.cookBusyTime += p.Now() - cookStart
	component.CompleteTime = f64(p.Now())
	station.DishesPrepared++
	station.BusySlots--
	r.releaseComponentFromCook(station.Name, cookIdx)
	if station.BusySlots == 0 && station.ActiveSince != nil {
		station.BusyTime += p.Now() - *station.ActiveSince
		station.ActiveSince = nil
	}
	r.stationTrigs[station.Name].fire()

	if tracking, ok := r.componentTracking[component.DishID]; ok {
		tracking[component.ID] = true
		allDone := true
		for _, done := range tracking {
			if !done {
				allDone = false
				break
			}
		}
		if allDone {
			r.dishComponentsComplete(p, component.DishID)
		}
	}
}

// dishComponentsComplete finalizes a dish once its last component finishes:
// prep time is the max over components since they cook in parallel, and the
// dish joins the expo queue.
func (r *Restaurant) dishComponentsComplete(p *kernel.Proc, dishID int) {
	dish := r.dishByID[dishID]
	if dish == nil {
		return
	}
	var prep float64
	for _, c := range dish.Components {
		if c.ActualPrepTime != nil && *c.ActualPrepTime > prep {
			prep = *c.ActualPrepTime
		}
	}
	if prep > 0 {
		dish.PrepTime = f64(prep)
	}
	dish.CompleteTime = f64(p.Now())
	r.expoQueue = append(r.expoQueue, dish)

	logrus.Debugf("dish %d (%s) cooked in %.2f min", dish.ID, dish.DishType, prep)
	r.event(trace.EventDishCompleted, dishID, "cooking", "expo_queue", map[string]any{
		"dish_type": dish.DishType,
		"order_id":  dish.OrderID,
		"prep_time": dish.PrepTime,
	})

	r.expoTrig.fire()
}
