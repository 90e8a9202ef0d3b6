package sim

import (
	"github.com/restaurant-sim/restaurant-sim/sim/kernel"
	"github.com/restaurant-sim/restaurant-sim/sim/trace"
)

// expoDispatcher pulls cooked dishes off the expo queue and spawns a check
// proc per dish; concurrency is bounded by the expo pool, not the
// dispatcher.
func (r *Restaurant) expoDispatcher(p *kernel.Proc) {
	for {
		if len(r.expoQueue) > 0 {
			dish := r.expoQueue[0]
			r.expoQueue = r.expoQueue[1:]
			r.kernel.Go("expo_check", func(cp *kernel.Proc) {
				r.expoCheck(cp, dish)
			})
			p.Sleep(0) // let the check start
		} else {
			r.expoTrig.wait(p)
		}
	}
}

// expoCheck runs the quality pass on one dish, then releases it for
// delivery: a single-dish delivery task is created immediately, and when
// this was the order's last dish the party's AllDishesReady is stamped.
// That stamp happens only here; an order whose last dish never clears expo
// before the horizon leaves it nil.
func (r *Restaurant) expoCheck(p *kernel.Proc, dish *Dish) {
	r.expo.Acquire(p)
	dish.ExpoStartTime = f64(p.Now())
	r.event(trace.EventDishExpoStart, dish.ID, "expo_queue", "expo_check", map[string]any{
		"dish_type": dish.DishType,
		"order_id":  dish.OrderID,
	})

	checkTime := r.sampler.NormalPositive(r.p.ExpoCheckTimeMean, r.p.ExpoCheckTimeStd)
	p.Sleep(checkTime)
	r.expoBusyTime += checkTime
	dish.ExpoCompleteTime = f64(p.Now())
	r.expo.Release()

	r.event(trace.EventDishExpoComplete, dish.ID, "expo_check", "ready", map[string]any{
		"dish_type": dish.DishType,
		"order_id":  dish.OrderID,
	})

	orderID := dish.OrderID
	r.orderBatching[orderID] = append(r.orderBatching[orderID], dish)

	// Dishes go out as soon as they clear expo, never batched by order.
	r.createDeliveryTaskForDish(dish)

	if len(r.orderBatching[orderID]) >= r.orderTotalDishes[orderID] {
		if partyID, ok := r.orderToParty[orderID]; ok {
			if party := r.partyByID[partyID]; party != nil && party.AllDishesReady == nil {
				party.AllDishesReady = f64(p.Now())
			}
		}
	}
}
