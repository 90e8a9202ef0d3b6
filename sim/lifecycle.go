package sim

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/restaurant-sim/restaurant-sim/sim/kernel"
	"github.com/restaurant-sim/restaurant-sim/sim/trace"
)

// generateArrivals draws the full arrival schedule up front by thinning a
// homogeneous Poisson process at the dominating rate: candidate gaps are
// exponential at MaxRate, and each candidate survives with probability
// rate(t)/MaxRate.
func (r *Restaurant) generateArrivals() []float64 {
	t := 0.0
	maxRate := r.p.MaxRate()
	var arrivals []float64
	for t < r.p.Duration {
		t += r.sampler.Exp(1 / maxRate)
		if t < r.p.Duration && r.sampler.Float64() < r.p.RateAt(t)/maxRate {
			arrivals = append(arrivals, t)
		}
	}
	return arrivals
}

// partyProcess drives one party from arrival to departure. Stage order:
// wait for a table, decide, order (server task), wait for the kitchen, dine
// once every dish has been delivered, pay (server task), then wait out
// cleanup and depart. Each stage stamps its timestamps in order; a party
// abandoned at the horizon keeps whatever prefix it reached.
func (r *Restaurant) partyProcess(p *kernel.Proc, arrivalTime float64) {
	r.partyCounter++
	party := &Party{
		ID:          r.partyCounter,
		ArrivalTime: arrivalTime,
		PartySize:   r.sampler.PartySize(),
	}
	r.parties = append(r.parties, party)
	r.partyByID[party.ID] = party

	seated := r.kernel.NewSignal()
	r.partySeated[party.ID] = seated
	r.guestQueue = append(r.guestQueue, party)

	r.event(trace.EventPartyArrived, party.ID, "", "waiting_for_table", map[string]any{
		"party_size":   party.PartySize,
		"arrival_time": arrivalTime,
	})

	r.guestQueueTrig.fire()
	p.Wait(seated)

	// Menu decision, then order taking by the zone server.
	decisionMean := r.p.DecisionBaseMean + r.p.DecisionPerPersonMean*float64(party.PartySize)
	p.Sleep(r.sampler.NormalPositive(decisionMean, r.p.DecisionStd))

	r.createOrderingTask(party)
	p.Sleep(0)
	for party.OrderingComplete == nil {
		p.Sleep(0.1)
	}

	// Fire the order into the kitchen.
	r.orderCounter++
	orderID := r.orderCounter
	r.orderToParty[orderID] = party.ID
	totalDishes := r.generateOrderDishes(party.PartySize)
	party.TotalDishes = totalDishes
	party.KitchenStart = f64(p.Now())
	r.orderTotalDishes[orderID] = totalDishes
	r.orderBatching[orderID] = []*Dish{}

	r.event(trace.EventOrderCreated, orderID, "", "pending", map[string]any{
		"party_id":     party.ID,
		"total_dishes": totalDishes,
	})

	r.orderFirstDelivery[orderID] = r.kernel.NewSignal()
	allDelivered := r.kernel.NewSignal()
	r.orderAllDelivered[orderID] = allDelivered

	dishes := make([]*Dish, 0, totalDishes)
	for i := 0; i < totalDishes; i++ {
		dishes = append(dishes, r.createDishWithComponents(orderID))
	}
	var dishTotal float64
	for _, d := range dishes {
		if d.Price > 0 {
			dishTotal += d.Price
		} else {
			dishTotal += r.p.PricePerDish
		}
	}
	party.CheckTotal = dishTotal * (1 + r.p.DrinkSupplement)
	logrus.Debugf("party %d ordered %d dishes (check %.2f)", party.ID, totalDishes, party.CheckTotal)

	// Dining starts only once every dish has reached the table.
	p.Wait(allDelivered)
	party.DiningStart = party.AllDishesDelivered
	diningMu := r.p.DiningBaseMu + r.p.DiningPerPersonMu*float64(party.PartySize)
	p.Sleep(r.sampler.LogNormal(diningMu, r.p.DiningSigma))
	party.DiningComplete = f64(p.Now())

	r.createCheckoutTask(party)
	for party.PaymentComplete == nil {
		p.Sleep(0.1)
	}

	r.createCleaningTask(party)
	for party.CleanupStart == nil {
		p.Sleep(0.1)
	}

	// The party leaves on a fixed schedule once cleanup is underway; the
	// staff task releases the tables on its own clock.
	cleanupMean := r.p.CleanupBaseMean + r.p.CleanupPerPersonMean*float64(party.PartySize)
	p.Sleep(cleanupMean + 1.0)
	party.DepartureTime = f64(p.Now())
	r.totalRevenue += party.CheckTotal

	r.event(trace.EventPartyDeparted, party.ID, "cleaning", "departed", map[string]any{
		"party_size":  party.PartySize,
		"check_total": party.CheckTotal,
		"total_time":  *party.DepartureTime - party.ArrivalTime,
	})
}

// generateOrderDishes draws the order size: party size times a uniform
// dishes-per-person factor, rounded up, never less than one dish.
func (r *Restaurant) generateOrderDishes(partySize int) int {
	perPerson := r.sampler.Uniform(r.p.AvgDishesPerPersonLow, r.p.AvgDishesPerPersonHigh)
	total := int(math.Ceil(float64(partySize) * perPerson))
	return max(1, total)
}

// createDishWithComponents draws a dish type, prices it from the catalog,
// and queues one component per recipe station.
func (r *Restaurant) createDishWithComponents(orderID int) *Dish {
	r.dishCounter++
	dishType := SelectDishType(r.sampler, r.menuDistribution)

	price := r.p.PricePerDish
	description := ""
	if entry, ok := r.menuCatalog[dishType]; ok {
		if entry.Price > 0 {
			price = entry.Price
		}
		description = entry.Description
	}

	dish := &Dish{
		ID:          r.dishCounter,
		OrderID:     orderID,
		DishType:    dishType,
		QueueTime:   f64(r.kernel.Now()),
		Price:       price,
		Description: description,
	}
	r.allDishes = append(r.allDishes, dish)
	r.dishByID[dish.ID] = dish

	r.componentTracking[dish.ID] = make(map[int]bool)
	for _, rc := range DishComponents(dishType, r.recipes) {
		r.componentCounter++
		component := &DishComponent{
			ID:            r.componentCounter,
			DishID:        dish.ID,
			OrderID:       orderID,
			StationName:   rc.Station,
			PrepTimeMu:    rc.Mu,
			PrepTimeSigma: rc.Sigma,
			QueueTime:     f64(r.kernel.Now()),
		}
		dish.Components = append(dish.Components, component)
		r.componentTracking[dish.ID][component.ID] = false
		if _, ok := r.stationQueues[rc.Station]; ok {
			r.stationQueues[rc.Station] = append(r.stationQueues[rc.Station], component)
			r.stationTrigs[rc.Station].fire()
		}
	}
	return dish
}
