package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/restaurant-sim/restaurant-sim/sim/kernel"
	"github.com/restaurant-sim/restaurant-sim/sim/trace"
)

// Task creation. A delivery or cleaning task enters every queue whose staff
// kind may serve it; the active registry decides who actually wins it.

func (r *Restaurant) nextTaskID() int {
	r.taskCounter++
	return r.taskCounter
}

// createDeliveryTaskForDish queues a single-dish delivery, eligible for both
// the party's zone server and the food runners.
func (r *Restaurant) createDeliveryTaskForDish(dish *Dish) {
	partyID, ok := r.orderToParty[dish.OrderID]
	if !ok {
		return
	}
	party := r.partyByID[partyID]
	if party == nil {
		return
	}
	zoneID := party.ZoneID
	task := &Task{
		ID:          r.nextTaskID(),
		Kind:        TaskDelivery,
		PartyID:     partyID,
		ZoneID:      zoneID,
		CreatedTime: r.kernel.Now(),
		OrderID:     dish.OrderID,
		NumDishes:   1,
		DishID:      dish.ID,
	}
	r.activeTasks[task.ID] = task
	r.foodRunnerQueue = append(r.foodRunnerQueue, task)
	if _, ok := r.serverZoneQueues[zoneID]; ok {
		r.serverZoneQueues[zoneID] = append(r.serverZoneQueues[zoneID], task)
	}

	r.event(trace.EventTaskCreated, task.ID, "", "pending", map[string]any{
		"task_type":  TaskDelivery.String(),
		"party_id":   partyID,
		"order_id":   dish.OrderID,
		"dish_id":    dish.ID,
		"num_dishes": 1,
	})

	r.foodRunnerTrig.fire()
	r.serverZoneTrigs[zoneID].fire()
}

// createCleaningTask queues table cleanup, eligible for the zone server and
// the bussers.
func (r *Restaurant) createCleaningTask(party *Party) {
	zoneID := party.ZoneID
	tableIDs := make([]int, len(party.TablesAssigned))
	copy(tableIDs, party.TablesAssigned)
	task := &Task{
		ID:          r.nextTaskID(),
		Kind:        TaskCleaning,
		PartyID:     party.ID,
		ZoneID:      zoneID,
		CreatedTime: r.kernel.Now(),
		TableIDs:    tableIDs,
	}
	r.activeTasks[task.ID] = task
	r.busserQueue = append(r.busserQueue, task)
	if _, ok := r.serverZoneQueues[zoneID]; ok {
		r.serverZoneQueues[zoneID] = append(r.serverZoneQueues[zoneID], task)
	}

	r.event(trace.EventTaskCreated, task.ID, "", "pending", map[string]any{
		"task_type": TaskCleaning.String(),
		"party_id":  party.ID,
		"table_ids": tableIDs,
	})

	r.busserTrig.fire()
	r.serverZoneTrigs[zoneID].fire()
}

// createOrderingTask queues order taking, a server-only task.
func (r *Restaurant) createOrderingTask(party *Party) *Task {
	return r.createServerOnlyTask(party, TaskOrdering)
}

// createCheckoutTask queues payment processing, a server-only task.
func (r *Restaurant) createCheckoutTask(party *Party) *Task {
	return r.createServerOnlyTask(party, TaskCheckout)
}

func (r *Restaurant) createServerOnlyTask(party *Party, kind TaskKind) *Task {
	zoneID := party.ZoneID
	task := &Task{
		ID:          r.nextTaskID(),
		Kind:        kind,
		PartyID:     party.ID,
		ZoneID:      zoneID,
		CreatedTime: r.kernel.Now(),
	}
	r.activeTasks[task.ID] = task
	if _, ok := r.serverZoneQueues[zoneID]; ok {
		r.serverZoneQueues[zoneID] = append(r.serverZoneQueues[zoneID], task)
	}

	r.event(trace.EventTaskCreated, task.ID, "", "pending", map[string]any{
		"task_type": kind.String(),
		"party_id":  party.ID,
	})

	r.serverZoneTrigs[zoneID].fire()
	return task
}

// removeTaskFromQueues claims a task: it leaves the active registry and is
// eagerly removed from every other queue holding it, so no second staff kind
// can win it. Entries already popped elsewhere are left for the stale-entry
// discard in the dispatchers.
func (r *Restaurant) removeTaskFromQueues(task *Task, claimedBy string) {
	delete(r.activeTasks, task.ID)
	if queue, ok := r.serverZoneQueues[task.ZoneID]; ok {
		for i, t := range queue {
			if t.ID == task.ID {
				r.serverZoneQueues[task.ZoneID] = append(queue[:i:i], queue[i+1:]...)
				break
			}
		}
	}
	if task.Kind == TaskDelivery {
		for i, t := range r.foodRunnerQueue {
			if t.ID == task.ID {
				r.foodRunnerQueue = append(r.foodRunnerQueue[:i:i], r.foodRunnerQueue[i+1:]...)
				break
			}
		}
	}
	if task.Kind == TaskCleaning {
		for i, t := range r.busserQueue {
			if t.ID == task.ID {
				r.busserQueue = append(r.busserQueue[:i:i], r.busserQueue[i+1:]...)
				break
			}
		}
	}
	task.AssignedTo = claimedBy
}

// claimNext pops queue entries until one is still in the active registry,
// silently discarding stale ones. Returns the remaining queue and the
// claimed task, or nil when the queue drains.
func (r *Restaurant) claimNext(queue []*Task) ([]*Task, *Task) {
	for len(queue) > 0 {
		candidate := queue[0]
		queue = queue[1:]
		if _, active := r.activeTasks[candidate.ID]; active {
			return queue, candidate
		}
	}
	return queue, nil
}

// serverZoneDispatcher serves one zone's task queue in FIFO order, handling
// every task kind. Tasks run to completion before the next claim.
func (r *Restaurant) serverZoneDispatcher(p *kernel.Proc, zoneID int) {
	claimedBy := fmt.Sprintf("server_zone_%d", zoneID)
	for {
		var task *Task
		r.serverZoneQueues[zoneID], task = r.claimNext(r.serverZoneQueues[zoneID])
		if task != nil {
			r.removeTaskFromQueues(task, claimedBy)
			r.serverProcessTask(p, zoneID, task)
		} else {
			r.serverZoneTrigs[zoneID].wait(p)
		}
	}
}

// serverProcessTask executes one claimed task on an acquired server. The
// duration model differs per kind; party timestamps are stamped at the kind-
// specific stage boundaries.
func (r *Restaurant) serverProcessTask(p *kernel.Proc, zoneID int, task *Task) {
	r.servers.Acquire(p)
	task.StartedTime = f64(p.Now())
	party := r.partyByID[task.PartyID]

	r.event(trace.EventTaskStarted, task.ID, "pending", "in_progress", map[string]any{
		"task_type":   task.Kind.String(),
		"party_id":    task.PartyID,
		"assigned_to": task.AssignedTo,
	})

	switch {
	case task.Kind == TaskOrdering && party != nil:
		party.OrderingStart = f64(p.Now())
		orderTime := r.sampler.NormalPositive(r.p.OrderingTakingMean, r.p.OrderingTakingStd)
		p.Sleep(orderTime)
		r.serverBusyTime += orderTime
		party.OrderingComplete = f64(p.Now())

	case task.Kind == TaskCheckout && party != nil:
		party.PaymentStart = f64(p.Now())
		mean := r.p.PaymentBaseMean + r.p.PaymentPerPersonMean*float64(party.PartySize)
		paymentTime := r.sampler.NormalPositive(mean, r.p.PaymentStd)
		p.Sleep(paymentTime)
		r.serverBusyTime += paymentTime
		party.PaymentComplete = f64(p.Now())

	case task.Kind == TaskDelivery && party != nil:
		r.deliverDishes(p, task, party, &r.serverBusyTime)

	case task.Kind == TaskCleaning && party != nil:
		party.CleanupStart = f64(p.Now())
		mean := r.p.CleanupBaseMean + r.p.CleanupPerPersonMean*float64(party.PartySize)
		cleanupTime := r.sampler.NormalPositive(mean, r.p.CleanupStd)
		p.Sleep(cleanupTime)
		r.serverBusyTime += cleanupTime
		r.releaseTables(task.TableIDs, party.ZoneID)
	}

	task.CompletedTime = f64(p.Now())
	r.event(trace.EventTaskCompleted, task.ID, "in_progress", "completed", map[string]any{
		"task_type": task.Kind.String(),
		"party_id":  task.PartyID,
	})
	r.servers.Release()
}

// deliverDishes runs one delivery: a normal-positive walk, then delivered-
// dish accounting. The whole-order AllDishesDelivered stamp and its signal
// fire when the count reaches the order's total.
func (r *Restaurant) deliverDishes(p *kernel.Proc, task *Task, party *Party, busyTime *float64) {
	orderID := task.OrderID
	if party.FirstDeliveryTime == nil {
		party.FirstDeliveryTime = f64(p.Now())
		if sig, ok := r.orderFirstDelivery[orderID]; ok && !sig.Fired() {
			sig.Fire()
		}
	}

	deliveryTime := r.sampler.NormalPositive(r.p.DeliveryBaseMean, r.p.DeliveryStd)
	p.Sleep(deliveryTime)
	*busyTime += deliveryTime

	if r.orderDeliveredDishes[orderID] == nil {
		r.orderDeliveredDishes[orderID] = make(map[int]bool)
	}
	if task.DishID != 0 {
		r.orderDeliveredDishes[orderID][task.DishID] = true
	}
	party.DishesDeliveredCount += task.NumDishes

	if party.DishesDeliveredCount >= party.TotalDishes {
		party.AllDishesDelivered = f64(p.Now())
		if sig, ok := r.orderAllDelivered[orderID]; ok && !sig.Fired() {
			sig.Fire()
		}
	}
}

// foodRunnerDispatcher serves the delivery queue across all zones.
func (r *Restaurant) foodRunnerDispatcher(p *kernel.Proc) {
	for {
		var task *Task
		r.foodRunnerQueue, task = r.claimNext(r.foodRunnerQueue)
		if task != nil {
			r.removeTaskFromQueues(task, "food_runner")
			r.foodRunnerProcessTask(p, task)
		} else {
			r.foodRunnerTrig.wait(p)
		}
	}
}

func (r *Restaurant) foodRunnerProcessTask(p *kernel.Proc, task *Task) {
	r.foodRunners.Acquire(p)
	task.StartedTime = f64(p.Now())

	r.event(trace.EventTaskStarted, task.ID, "pending", "in_progress", map[string]any{
		"task_type":   TaskDelivery.String(),
		"party_id":    task.PartyID,
		"assigned_to": task.AssignedTo,
	})

	party := r.partyByID[task.PartyID]
	if party != nil {
		r.deliverDishes(p, task, party, &r.foodRunnerBusyTime)
	}
	task.CompletedTime = f64(p.Now())

	r.event(trace.EventTaskCompleted, task.ID, "in_progress", "completed", map[string]any{
		"task_type":  TaskDelivery.String(),
		"party_id":   task.PartyID,
		"num_dishes": task.NumDishes,
	})

	if party != nil {
		for _, dish := range r.orderBatching[task.OrderID] {
			r.collector.RecordEvent(trace.Event{
				EventType: trace.EventDishDelivered,
				Timestamp: p.Now(),
				EntityID:  dish.ID,
				FromState: "ready",
				ToState:   "delivered",
				Details: map[string]any{
					"dish_type": dish.DishType,
					"order_id":  dish.OrderID,
					"party_id":  task.PartyID,
				},
			})
		}
	}

	if len(r.runnerMembers) > 0 {
		r.runnerMembers[0].WorkDone++
	}
	r.foodRunners.Release()
}

// busserDispatcher serves the cleaning queue.
func (r *Restaurant) busserDispatcher(p *kernel.Proc) {
	for {
		var task *Task
		r.busserQueue, task = r.claimNext(r.busserQueue)
		if task != nil {
			r.removeTaskFromQueues(task, "busser")
			r.busserProcessTask(p, task)
		} else {
			r.busserTrig.wait(p)
		}
	}
}

func (r *Restaurant) busserProcessTask(p *kernel.Proc, task *Task) {
	r.bussers.Acquire(p)
	task.StartedTime = f64(p.Now())

	r.event(trace.EventTaskStarted, task.ID, "pending", "in_progress", map[string]any{
		"task_type":   TaskCleaning.String(),
		"party_id":    task.PartyID,
		"assigned_to": task.AssignedTo,
	})

	party := r.partyByID[task.PartyID]
	if party != nil {
		party.CleanupStart = f64(p.Now())
		mean := r.p.CleanupBaseMean + r.p.CleanupPerPersonMean*float64(party.PartySize)
		cleanupTime := r.sampler.NormalPositive(mean, r.p.CleanupStd)
		p.Sleep(cleanupTime)
		r.busserBusyTime += cleanupTime
		r.releaseTables(task.TableIDs, party.ZoneID)
		logrus.Debugf("busser cleaned tables %v for party %d", task.TableIDs, party.ID)
	}
	task.CompletedTime = f64(p.Now())

	r.event(trace.EventTaskCompleted, task.ID, "in_progress", "completed", map[string]any{
		"task_type": TaskCleaning.String(),
		"party_id":  task.PartyID,
		"table_ids": task.TableIDs,
	})

	if len(r.busserMembers) > 0 {
		r.busserMembers[0].WorkDone++
	}
	r.bussers.Release()
}
