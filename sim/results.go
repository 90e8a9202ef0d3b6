package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// stageSpan returns end-start clamped at 0, treating nil as 0 the way the
// served-party aggregates do.
func stageSpan(start, end *float64) float64 {
	var s, e float64
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	if e < s {
		return 0
	}
	return e - s
}

// Results computes the flat metrics map for a finished run: throughput,
// per-stage waits and service times, kitchen and dish diagnostics, staff and
// station utilization, and the business KPIs (RevPASH, net RevPASH, labor
// cost).
func (r *Restaurant) Results() map[string]float64 {
	duration := r.p.Duration

	// Stations still active at the horizon accrue their open interval.
	for _, station := range r.stations {
		if station.ActiveSince != nil {
			station.BusyTime += duration - *station.ActiveSince
			station.ActiveSince = nil
		}
	}

	var served []*Party
	partiesWithTable := 0
	for _, p := range r.parties {
		if p.TableAssignedTime != nil {
			partiesWithTable++
		}
		if p.DepartureTime != nil && *p.DepartureTime <= duration {
			served = append(served, p)
		}
	}
	partiesServed := len(served)
	partiesWaiting := len(r.parties) - partiesWithTable

	var waitsTable, waitsOrder, waitsKitchen, totalTimes []float64
	var orderingTimes, deliveryTimes, diningTimes, paymentTimes, cleanupTimes []float64
	for _, p := range served {
		waitsTable = append(waitsTable, stageSpan(f64(p.ArrivalTime), p.TableAssignedTime))
		waitsOrder = append(waitsOrder, stageSpan(p.TableAssignedTime, p.OrderingStart))
		waitsKitchen = append(waitsKitchen, stageSpan(p.KitchenStart, p.AllDishesReady))
		totalTimes = append(totalTimes, stageSpan(f64(p.ArrivalTime), p.DepartureTime))
		orderingTimes = append(orderingTimes, stageSpan(p.OrderingStart, p.OrderingComplete))
		deliveryTimes = append(deliveryTimes, stageSpan(p.FirstDeliveryTime, p.AllDishesDelivered))
		diningTimes = append(diningTimes, stageSpan(p.DiningStart, p.DiningComplete))
		paymentTimes = append(paymentTimes, stageSpan(p.PaymentStart, p.PaymentComplete))
		cleanupTimes = append(cleanupTimes, stageSpan(p.CleanupStart, p.DepartureTime))
	}

	// Wait to table over all parties; never-seated parties count as waiting
	// until the horizon.
	var allWaitsTable []float64
	for _, p := range r.parties {
		if p.TableAssignedTime != nil {
			allWaitsTable = append(allWaitsTable, *p.TableAssignedTime-p.ArrivalTime)
		} else {
			allWaitsTable = append(allWaitsTable, duration-p.ArrivalTime)
		}
	}

	// Kitchen diagnostics: per served order, wait until the first component
	// starts versus the cooking span after that.
	partyToOrder := make(map[int]int, len(r.orderToParty))
	for orderID, partyID := range r.orderToParty {
		partyToOrder[partyID] = orderID
	}
	var kitchenWaits, kitchenServices []float64
	for _, p := range served {
		if p.KitchenStart == nil || p.AllDishesReady == nil {
			continue
		}
		orderID, ok := partyToOrder[p.ID]
		if !ok {
			continue
		}
		firstStart, ok := r.firstDishStartTimes[orderID]
		if !ok {
			continue
		}
		kitchenWaits = append(kitchenWaits, firstStart-*p.KitchenStart)
		kitchenServices = append(kitchenServices, *p.AllDishesReady-firstStart)
	}

	// Dish diagnostics.
	var dishWaits, dishPreps, dishKitchenTimes []float64
	completedDishes := 0
	queuedAtEnd := 0
	for _, d := range r.allDishes {
		if d.StartTime == nil {
			queuedAtEnd++
		}
		if d.CompleteTime != nil && d.StartTime != nil {
			completedDishes++
			if d.QueueTime != nil {
				dishWaits = append(dishWaits, *d.StartTime-*d.QueueTime)
			}
			if d.PrepTime != nil {
				dishPreps = append(dishPreps, *d.PrepTime)
			}
		}
		if d.ExpoCompleteTime != nil {
			if partyID, ok := r.orderToParty[d.OrderID]; ok {
				if party := r.partyByID[partyID]; party != nil && party.KitchenStart != nil {
					dishKitchenTimes = append(dishKitchenTimes, *d.ExpoCompleteTime-*party.KitchenStart)
				}
			}
		}
	}

	// Party size and check statistics.
	var allSizes, servedSizes, checkSizes, servedOrderSizes, tablesPerParty []float64
	totalGuestsArrived, totalGuestsServed := 0, 0
	for _, p := range r.parties {
		allSizes = append(allSizes, float64(p.PartySize))
		totalGuestsArrived += p.PartySize
	}
	for _, p := range served {
		servedSizes = append(servedSizes, float64(p.PartySize))
		totalGuestsServed += p.PartySize
		if p.CheckTotal > 0 {
			checkSizes = append(checkSizes, p.CheckTotal)
		}
		if p.TotalDishes > 0 {
			servedOrderSizes = append(servedOrderSizes, float64(p.TotalDishes))
		}
		if len(p.TablesAssigned) > 0 {
			tablesPerParty = append(tablesPerParty, float64(len(p.TablesAssigned)))
		}
	}

	// Utilization. Cook utilization normalizes total component time by
	// cooks x duration x concurrency, so multitasking cooks stay in [0, 1].
	var totalCookBusy float64
	for _, station := range r.stations {
		totalCookBusy += station.cookBusyTime
	}
	cookCapacity := float64(r.p.NumCooks) * duration * float64(r.p.CookConcurrency)
	cookUtil := 0.0
	if cookCapacity > 0 {
		cookUtil = totalCookBusy / cookCapacity
	}
	serverUtil := ratio(r.serverBusyTime, float64(r.p.NumServers)*duration)
	var hostBusy float64
	for _, h := range r.hostMembers {
		hostBusy += h.BusyTime
	}
	hostUtil := ratio(hostBusy, float64(r.p.NumHosts)*duration)
	runnerUtil := ratio(r.foodRunnerBusyTime, float64(r.p.NumFoodRunners)*duration)
	busserUtil := ratio(r.busserBusyTime, float64(r.p.NumBussers)*duration)
	expoUtil := ratio(r.expoBusyTime, float64(r.p.ExpoCapacity)*duration)

	// Business KPIs.
	totalSeats := 0
	for _, size := range r.p.TableSizes {
		totalSeats += size
	}
	totalTables := len(r.p.TableSizes)
	hours := duration / 60.0
	seatHours := float64(totalSeats) * hours
	tableTurnover := 0.0
	if totalTables > 0 {
		tableTurnover = float64(partiesServed) / (float64(totalTables) * hours)
	}
	revpash := ratio(r.totalRevenue, seatHours)

	serverCost := float64(r.p.NumServers) * hours * r.p.ServerHourlyWage
	cookCost := float64(r.p.NumCooks) * hours * r.p.CookHourlyWage
	hostCost := float64(r.p.NumHosts) * hours * r.p.HostHourlyWage
	runnerCost := float64(r.p.NumFoodRunners) * hours * r.p.FoodRunnerHourlyWage
	busserCost := float64(r.p.NumBussers) * hours * r.p.BusserHourlyWage
	laborCost := serverCost + cookCost + hostCost + runnerCost + busserCost
	netRevpash := ratio(r.totalRevenue-laborCost, seatHours)

	serviceRate := 0.0
	if len(r.parties) > 0 {
		serviceRate = float64(partiesServed) / float64(len(r.parties))
	}

	result := map[string]float64{
		"parties_arrived":           float64(len(r.parties)),
		"parties_served":            float64(partiesServed),
		"parties_with_table":        float64(partiesWithTable),
		"parties_abandoned":         float64(partiesWithTable - partiesServed),
		"parties_waiting_for_table": float64(partiesWaiting),
		"service_rate":              serviceRate,
		"total_tables":              float64(totalTables),
		"total_seats":               float64(totalSeats),

		"total_guests_arrived":  float64(totalGuestsArrived),
		"total_guests_served":   float64(totalGuestsServed),
		"avg_party_size_all":    mean(allSizes),
		"avg_party_size_served": mean(servedSizes),
		"min_party_size":        minOf(allSizes),
		"max_party_size":        maxOf(allSizes),

		"avg_check_size": mean(checkSizes),
		"min_check_size": minOf(checkSizes),
		"max_check_size": maxOf(checkSizes),

		"avg_wait_table":    mean(waitsTable),
		"avg_wait_to_order": mean(waitsOrder),
		"avg_kitchen_time":  mean(waitsKitchen),
		"avg_total_time":    mean(totalTimes),

		"avg_wait_table_all": mean(allWaitsTable),
		"max_wait_table":     maxOf(allWaitsTable),

		"avg_ordering_time": mean(orderingTimes),
		"avg_delivery_time": mean(deliveryTimes),
		"avg_dining_time":   mean(diningTimes),
		"avg_payment_time":  mean(paymentTimes),
		"avg_cleanup_time":  mean(cleanupTimes),

		"avg_kitchen_wait":    mean(kitchenWaits),
		"avg_kitchen_service": mean(kitchenServices),

		"avg_dish_wait":          mean(dishWaits),
		"avg_dish_prep":          mean(dishPreps),
		"max_dish_wait":          maxOf(dishWaits),
		"avg_dish_kitchen_time":  mean(dishKitchenTimes),
		"min_dish_kitchen_time":  minOf(dishKitchenTimes),
		"max_dish_kitchen_time":  maxOf(dishKitchenTimes),
		"total_dishes_created":   float64(len(r.allDishes)),
		"total_dishes_completed": float64(completedDishes),
		"dishes_in_queue_at_end": float64(queuedAtEnd),
		"avg_dishes_per_order":   mean(servedOrderSizes),

		"avg_tables_per_party": mean(tablesPerParty),
		"max_tables_per_party": maxOf(tablesPerParty),

		"avg_cook_utilization":    cookUtil,
		"server_utilization":      serverUtil,
		"host_utilization":        hostUtil,
		"food_runner_utilization": runnerUtil,
		"busser_utilization":      busserUtil,
		"expo_utilization":        expoUtil,

		"table_turnover": tableTurnover,
		"revpash":        revpash,
		"net_revpash":    netRevpash,
		"total_revenue":  r.totalRevenue,

		"total_server_cost":      serverCost,
		"total_cook_cost":        cookCost,
		"total_host_cost":        hostCost,
		"total_food_runner_cost": runnerCost,
		"total_busser_cost":      busserCost,
		"total_labor_cost":       laborCost,
		"labor_cost_per_hour":    ratio(laborCost, hours),
	}

	for _, name := range r.p.StationNames() {
		station := r.stations[name]
		result[name+"_utilization"] = ratio(station.BusyTime, float64(station.Capacity)*duration)
		result[name+"_dishes_prepared"] = float64(station.DishesPrepared)
	}

	return result
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// FormatResults renders the metrics map grouped for terminal output, with
// the primary KPI first.
func FormatResults(results map[string]float64) string {
	sections := []struct {
		title string
		keys  []string
	}{
		{"PRIMARY KPI", []string{"net_revpash", "revpash", "total_revenue", "total_labor_cost"}},
		{"THROUGHPUT", []string{"parties_arrived", "parties_served", "service_rate",
			"parties_with_table", "parties_abandoned", "parties_waiting_for_table"}},
		{"GUESTS", []string{"total_guests_arrived", "total_guests_served",
			"avg_party_size_all", "avg_party_size_served", "avg_check_size"}},
		{"WAITS", []string{"avg_wait_table", "avg_wait_table_all", "max_wait_table",
			"avg_wait_to_order", "avg_kitchen_time", "avg_total_time"}},
		{"STAGES", []string{"avg_ordering_time", "avg_delivery_time", "avg_dining_time",
			"avg_payment_time", "avg_cleanup_time"}},
		{"KITCHEN", []string{"avg_kitchen_wait", "avg_kitchen_service", "avg_dish_wait",
			"avg_dish_prep", "avg_dish_kitchen_time", "total_dishes_created",
			"total_dishes_completed", "avg_dishes_per_order"}},
		{"UTILIZATION", []string{"avg_cook_utilization", "server_utilization",
			"host_utilization", "food_runner_utilization", "busser_utilization",
			"expo_utilization", "table_turnover"}},
	}

	out := "==== RESTAURANT SIMULATION RESULTS ====\n"
	seen := make(map[string]bool)
	for _, sec := range sections {
		out += fmt.Sprintf("\n[%s]\n", sec.title)
		for _, k := range sec.keys {
			if v, ok := results[k]; ok {
				out += fmt.Sprintf("  %-28s %10.3f\n", k, v)
				seen[k] = true
			}
		}
	}

	var rest []string
	for k := range results {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	if len(rest) > 0 {
		out += "\n[OTHER]\n"
		for _, k := range rest {
			out += fmt.Sprintf("  %-28s %10.3f\n", k, results[k])
		}
	}
	return out
}
