package sim

import (
	"fmt"
	"sort"

	"github.com/restaurant-sim/restaurant-sim/sim/trace"
)

// Serialization of live entities into trace records. Map-backed state is
// emitted in sorted-id order so snapshots are deterministic.

func componentRecord(c *DishComponent) trace.ComponentRecord {
	return trace.ComponentRecord{
		ID:             c.ID,
		DishID:         c.DishID,
		OrderID:        c.OrderID,
		StationName:    c.StationName,
		PrepTimeMu:     c.PrepTimeMu,
		PrepTimeSigma:  c.PrepTimeSigma,
		QueueTime:      c.QueueTime,
		StartTime:      c.StartTime,
		CompleteTime:   c.CompleteTime,
		ActualPrepTime: c.ActualPrepTime,
		Status:         ComponentStatus(c),
	}
}

func dishRecord(d *Dish) trace.DishRecord {
	components := make([]trace.ComponentRecord, 0, len(d.Components))
	for _, c := range d.Components {
		components = append(components, componentRecord(c))
	}
	return trace.DishRecord{
		ID:               d.ID,
		OrderID:          d.OrderID,
		DishType:         d.DishType,
		QueueTime:        d.QueueTime,
		StartTime:        d.StartTime,
		CompleteTime:     d.CompleteTime,
		PrepTime:         d.PrepTime,
		ExpoStartTime:    d.ExpoStartTime,
		ExpoCompleteTime: d.ExpoCompleteTime,
		Price:            d.Price,
		Description:      d.Description,
		Status:           DishStatus(d),
		Components:       components,
	}
}

func partyRecord(p *Party) trace.PartyRecord {
	rec := trace.PartyRecord{
		ID:                 p.ID,
		ArrivalTime:        p.ArrivalTime,
		PartySize:          p.PartySize,
		TablesAssigned:     p.TablesAssigned,
		HostQueueTime:      p.HostQueueTime,
		WalkStartTime:      p.WalkStartTime,
		TableAssignedTime:  p.TableAssignedTime,
		OrderingStart:      p.OrderingStart,
		OrderingComplete:   p.OrderingComplete,
		KitchenStart:       p.KitchenStart,
		AllDishesReady:     p.AllDishesReady,
		FirstDeliveryTime:  p.FirstDeliveryTime,
		AllDishesDelivered: p.AllDishesDelivered,
		DiningStart:        p.DiningStart,
		DiningComplete:     p.DiningComplete,
		PaymentStart:       p.PaymentStart,
		PaymentComplete:    p.PaymentComplete,
		CleanupStart:       p.CleanupStart,
		DepartureTime:      p.DepartureTime,
		DishesDelivered:    p.DishesDeliveredCount,
		TotalDishes:        p.TotalDishes,
		CheckTotal:         p.CheckTotal,
		Status:             PartyStatus(p),
	}
	if p.Zoned {
		zone := p.ZoneID
		rec.ZoneID = &zone
	}
	return rec
}

func taskRecord(t *Task) trace.TaskRecord {
	rec := trace.TaskRecord{
		ID:            t.ID,
		TaskType:      t.Kind.String(),
		PartyID:       t.PartyID,
		ZoneID:        t.ZoneID,
		CreatedTime:   t.CreatedTime,
		StartedTime:   t.StartedTime,
		CompletedTime: t.CompletedTime,
		AssignedTo:    t.AssignedTo,
	}
	if t.Kind == TaskDelivery {
		rec.OrderID = t.OrderID
		rec.NumDishes = t.NumDishes
	}
	if t.Kind == TaskCleaning {
		rec.TableIDs = t.TableIDs
	}
	return rec
}

// orderStatus aggregates dish statuses: delivered only when every dish is
// delivered, cooking while any cooks, pending while any still waits.
func orderStatus(dishes []trace.DishRecord) string {
	if len(dishes) == 0 {
		return "pending"
	}
	allDelivered := true
	anyCooking := false
	anyQueued := false
	for _, d := range dishes {
		if d.Status != "delivered" {
			allDelivered = false
		}
		if d.Status == "cooking" {
			anyCooking = true
		}
		if d.Status == "queued" {
			anyQueued = true
		}
	}
	switch {
	case allDelivered:
		return "delivered"
	case anyCooking:
		return "cooking"
	case anyQueued:
		return "pending"
	default:
		return "expo"
	}
}

// captureSnapshot dumps the full system state at the current clock.
func (r *Restaurant) captureSnapshot() trace.Snapshot {
	now := r.kernel.Now()
	s := trace.Snapshot{
		Time:             now,
		GuestQueueLength: len(r.guestQueue),
		HostQueueLength:  len(r.hostQueue),
		TotalRevenue:     r.totalRevenue,
		ExpoQueueLength:  len(r.expoQueue),
		FoodRunnerQueue:  len(r.foodRunnerQueue),
		BusserQueue:      len(r.busserQueue),
		StationQueues:    make(map[string]int),
		StationBusy:      make(map[string]int),
		ZoneQueues:       make(map[string]int),
	}

	tableToParty := make(map[int]int)
	for _, party := range r.parties {
		s.Parties = append(s.Parties, partyRecord(party))
		if party.DepartureTime == nil {
			s.PartiesInSystem++
			for _, id := range party.TablesAssigned {
				tableToParty[id] = party.ID
			}
		} else {
			s.PartiesServed++
		}
	}

	for _, dish := range r.allDishes {
		s.Dishes = append(s.Dishes, dishRecord(dish))
	}

	orderIDs := make([]int, 0, len(r.orderToParty))
	for id := range r.orderToParty {
		orderIDs = append(orderIDs, id)
	}
	sort.Ints(orderIDs)
	for _, orderID := range orderIDs {
		var dishes []trace.DishRecord
		for _, d := range r.allDishes {
			if d.OrderID == orderID {
				dishes = append(dishes, dishRecord(d))
			}
		}
		s.Orders = append(s.Orders, trace.OrderRecord{
			OrderID:     orderID,
			PartyID:     r.orderToParty[orderID],
			Dishes:      dishes,
			TotalDishes: r.orderTotalDishes[orderID],
			Status:      orderStatus(dishes),
		})
	}

	taskIDs := make([]int, 0, len(r.activeTasks))
	for id := range r.activeTasks {
		taskIDs = append(taskIDs, id)
	}
	sort.Ints(taskIDs)
	for _, id := range taskIDs {
		s.Tasks = append(s.Tasks, taskRecord(r.activeTasks[id]))
	}

	for _, tableID := range r.tableOrder {
		zoneID := r.tableToZone[tableID]
		rec := trace.TableRecord{
			ID:          tableID,
			Size:        r.tableIDToSize[tableID],
			ZoneID:      zoneID,
			IsAvailable: r.availableTablesByZone[zoneID][tableID],
		}
		if partyID, ok := tableToParty[tableID]; ok {
			rec.PartyID = &partyID
		}
		s.Tables = append(s.Tables, rec)
	}

	for _, name := range r.p.StationNames() {
		station := r.stations[name]
		queue := r.stationQueues[name]
		s.StationQueues[name] = len(queue)
		s.StationBusy[name] = station.BusySlots

		active := make([]map[string]int, 0, 5)
		for _, c := range queue {
			if len(active) == 5 {
				break
			}
			active = append(active, map[string]int{
				"component_id": c.ID,
				"dish_id":      c.DishID,
				"order_id":     c.OrderID,
			})
		}
		s.Stations = append(s.Stations, trace.StationRecord{
			ID:               station.ID,
			Name:             name,
			Capacity:         station.Capacity,
			BusySlots:        station.BusySlots,
			BusyTime:         station.BusyTime,
			DishesPrepared:   station.DishesPrepared,
			QueueLength:      len(queue),
			ActiveComponents: active,
		})
	}

	for zone := 0; zone < r.numZones; zone++ {
		s.ZoneQueues[fmt.Sprintf("server_zone_%d", zone)] = len(r.serverZoneQueues[zone])
	}

	return s
}
