// Package sim implements a discrete-event simulation of a full-service
// restaurant: parties arrive by a time-varying Poisson process, compete for
// zoned tables, place orders that fan out into dish components cooked in
// parallel across capacity-bounded stations, pass an expo quality gate, are
// delivered dish-by-dish, dine, pay, and vacate tables that bussers clean.
// The engine runs on the cooperative virtual-time kernel in sim/kernel and
// is fully deterministic for a fixed seed.
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/restaurant-sim/restaurant-sim/sim/kernel"
	"github.com/restaurant-sim/restaurant-sim/sim/trace"
)

// trigger pairs a one-shot signal with a waiting flag, replicating the
// re-arm discipline every dispatcher uses: fire only wakes a parked
// dispatcher, and the spent signal is replaced on both sides.
type trigger struct {
	k       *kernel.Kernel
	sig     *kernel.Signal
	waiting bool
}

func newTrigger(k *kernel.Kernel) *trigger {
	return &trigger{k: k, sig: k.NewSignal()}
}

// fire wakes the parked dispatcher, if any, and re-arms.
func (t *trigger) fire() {
	if t.waiting && !t.sig.Fired() {
		t.sig.Fire()
		t.sig = t.k.NewSignal()
		t.waiting = false
	}
}

// wait parks p until the next fire, then re-arms.
func (t *trigger) wait(p *kernel.Proc) {
	t.waiting = true
	p.Wait(t.sig)
	t.waiting = false
	t.sig = t.k.NewSignal()
}

// Restaurant owns the whole mutable simulation state: tables and zones,
// staff pools, every queue and its trigger, the kitchen, the expo gate, the
// task registry, and all bookkeeping. It is passed by reference to every
// dispatcher; nothing is process-global.
type Restaurant struct {
	p       Parameters
	kernel  *kernel.Kernel
	sampler *Sampler

	// Tables and zones.
	tableOrder            []int // creation order
	tableIDToSize         map[int]int
	tableToZone           map[int]int
	zoneToTables          map[int][]int
	availableTablesByZone map[int]map[int]bool
	nextZoneIndex         int
	numZones              int

	// Front-of-house pools and bookkeeping.
	hosts              *pool
	hostMembers        []*StaffMember
	servers            *pool
	serverBusyTime     float64
	foodRunners        *pool
	runnerMembers      []*StaffMember
	foodRunnerBusyTime float64
	bussers            *pool
	busserMembers      []*StaffMember
	busserBusyTime     float64

	// Seating queues.
	guestQueue     []*Party
	hostQueue      []*Party
	guestQueueTrig *trigger
	hostQueueTrig  *trigger
	partySeated    map[int]*kernel.Signal

	// Staff task queues. The active registry is the source of truth for
	// claims; queue membership is advisory.
	serverZoneQueues map[int][]*Task
	foodRunnerQueue  []*Task
	busserQueue      []*Task
	serverZoneTrigs  map[int]*trigger
	foodRunnerTrig   *trigger
	busserTrig       *trigger
	activeTasks      map[int]*Task
	taskCounter      int

	// Kitchen.
	stations          map[string]*Station
	stationQueues     map[string][]*DishComponent
	stationTrigs      map[string]*trigger
	cookAvail         map[string]*kernel.Signal
	componentTracking map[int]map[int]bool // dish id -> component id -> done

	// Expo.
	expo         *pool
	expoQueue    []*Dish
	expoTrig     *trigger
	expoBusyTime float64

	// Orders.
	orderBatching        map[int][]*Dish // expo-cleared dishes per order
	orderTotalDishes     map[int]int
	orderDeliveredDishes map[int]map[int]bool
	orderToParty         map[int]int
	orderFirstDelivery   map[int]*kernel.Signal
	orderAllDelivered    map[int]*kernel.Signal
	firstDishStartTimes  map[int]float64 // order id -> first component start

	// Menu.
	recipes          Recipes
	menuDistribution map[string]float64
	menuCatalog      MenuCatalog

	// Counters and run-wide records.
	partyCounter     int
	orderCounter     int
	dishCounter      int
	componentCounter int
	parties          []*Party
	partyByID        map[int]*Party
	allDishes        []*Dish
	dishByID         map[int]*Dish
	totalRevenue     float64

	collector *trace.Collector
}

// New builds a Restaurant from validated parameters: tables are created and
// zoned, cooks apportioned to stations, pools sized (minimum 1), and all
// queues armed.
func New(p Parameters) *Restaurant {
	k := kernel.New()
	r := &Restaurant{
		p:       p,
		kernel:  k,
		sampler: NewSampler(p.Seed),

		tableIDToSize:         make(map[int]int),
		tableToZone:           make(map[int]int),
		availableTablesByZone: make(map[int]map[int]bool),

		serverZoneQueues: make(map[int][]*Task),
		serverZoneTrigs:  make(map[int]*trigger),
		activeTasks:      make(map[int]*Task),

		stations:          make(map[string]*Station),
		stationQueues:     make(map[string][]*DishComponent),
		stationTrigs:      make(map[string]*trigger),
		cookAvail:         make(map[string]*kernel.Signal),
		componentTracking: make(map[int]map[int]bool),

		orderBatching:        make(map[int][]*Dish),
		orderTotalDishes:     make(map[int]int),
		orderDeliveredDishes: make(map[int]map[int]bool),
		orderToParty:         make(map[int]int),
		orderFirstDelivery:   make(map[int]*kernel.Signal),
		orderAllDelivered:    make(map[int]*kernel.Signal),
		firstDishStartTimes:  make(map[int]float64),

		partySeated: make(map[int]*kernel.Signal),

		partyByID: make(map[int]*Party),
		dishByID:  make(map[int]*Dish),
	}

	// Tables, in declaration order.
	for i, size := range p.TableSizes {
		r.tableOrder = append(r.tableOrder, i)
		r.tableIDToSize[i] = size
	}

	// Zones: one per server, minimum one.
	r.numZones = max(1, p.NumServers)
	r.zoneToTables = AssignZones(r.tableOrder, r.numZones)
	for zone, tables := range r.zoneToTables {
		avail := make(map[int]bool, len(tables))
		for _, id := range tables {
			r.tableToZone[id] = zone
			avail[id] = true
		}
		r.availableTablesByZone[zone] = avail
	}

	// Staff pools; capacity is clamped to 1 so zero-staff runs progress.
	r.hosts = newPool(k, p.NumHosts)
	r.servers = newPool(k, p.NumServers)
	r.foodRunners = newPool(k, p.NumFoodRunners)
	r.bussers = newPool(k, p.NumBussers)
	for i := 0; i < p.NumHosts; i++ {
		r.hostMembers = append(r.hostMembers, &StaffMember{ID: i})
	}
	for i := 0; i < p.NumFoodRunners; i++ {
		r.runnerMembers = append(r.runnerMembers, &StaffMember{ID: i})
	}
	for i := 0; i < p.NumBussers; i++ {
		r.busserMembers = append(r.busserMembers, &StaffMember{ID: i})
	}

	// Seating and task queue triggers.
	r.guestQueueTrig = newTrigger(k)
	r.hostQueueTrig = newTrigger(k)
	for zone := 0; zone < r.numZones; zone++ {
		r.serverZoneQueues[zone] = []*Task{}
		r.serverZoneTrigs[zone] = newTrigger(k)
	}
	r.foodRunnerTrig = newTrigger(k)
	r.busserTrig = newTrigger(k)

	// Kitchen: apportion cooks and size station capacity.
	names := p.StationNames()
	cookDistribution := ApportionCooks(p.NumCooks, names, p.StationWeights)
	for i, name := range names {
		cooks := cookDistribution[name]
		r.stations[name] = &Station{
			ID:         i,
			Name:       name,
			Capacity:   cooks * p.CookConcurrency,
			cookCounts: make([]int, cooks),
		}
		r.stationQueues[name] = []*DishComponent{}
		r.stationTrigs[name] = newTrigger(k)
		r.cookAvail[name] = k.NewSignal()
		logrus.Debugf("station %s: %d cooks, capacity %d", name, cooks, cooks*p.CookConcurrency)
	}

	// Expo.
	r.expo = newPool(k, p.ExpoCapacity)
	r.expoTrig = newTrigger(k)

	// Menu.
	r.recipes = p.Recipes
	if r.recipes == nil {
		r.recipes = DefaultRecipes()
	}
	r.menuDistribution = NormalizeMenuDistribution(p.MenuDistribution, r.recipes)
	r.menuCatalog = p.MenuCatalog

	r.collector = trace.NewCollector(trace.Config{
		Enabled:             p.EnableLogging,
		EventsEnabled:       p.EnableEventLogging,
		MinSnapshotInterval: p.MinSnapshotInterval,
	})

	return r
}

// Kernel exposes the underlying kernel, mainly for tests.
func (r *Restaurant) Kernel() *kernel.Kernel {
	return r.kernel
}

// Collector returns the trace collector for log export.
func (r *Restaurant) Collector() *trace.Collector {
	return r.collector
}

// Parties returns all parties created during the run.
func (r *Restaurant) Parties() []*Party {
	return r.parties
}

// Dishes returns all dishes created during the run.
func (r *Restaurant) Dishes() []*Dish {
	return r.allDishes
}

// Stations returns the kitchen stations keyed by name.
func (r *Restaurant) Stations() map[string]*Station {
	return r.stations
}

// TotalRevenue returns revenue accrued by departed parties.
func (r *Restaurant) TotalRevenue() float64 {
	return r.totalRevenue
}

// Metadata builds export metadata for this run.
func (r *Restaurant) Metadata() trace.Metadata {
	return trace.NewMetadata(r.p.Duration, len(r.parties), len(r.allDishes),
		r.totalRevenue, len(r.collector.Snapshots), len(r.collector.Events))
}

// Run starts every dispatcher and one lifecycle proc per generated arrival,
// then drives the kernel to the horizon. In-flight activities past the
// horizon are abandoned: parties never seated and orders never fully cooked
// are legitimate terminal states. Returns the flat metrics map.
func (r *Restaurant) Run() map[string]float64 {
	r.kernel.Go("table_matcher", r.tableMatchingDispatcher)
	r.kernel.Go("host_dispatcher", r.hostDispatcher)
	for _, name := range r.p.StationNames() {
		name := name
		r.kernel.Go("station_"+name, func(p *kernel.Proc) { r.stationDispatcher(p, name) })
	}
	r.kernel.Go("expo_dispatcher", r.expoDispatcher)
	for zone := 0; zone < r.numZones; zone++ {
		zone := zone
		r.kernel.Go("server_zone", func(p *kernel.Proc) { r.serverZoneDispatcher(p, zone) })
	}
	r.kernel.Go("food_runner", r.foodRunnerDispatcher)
	r.kernel.Go("busser", r.busserDispatcher)
	if r.p.EnableLogging && r.p.EnablePeriodicBackup {
		r.kernel.Go("snapshot_backup", r.periodicBackupLogger)
	}

	arrivals := r.generateArrivals()
	logrus.Infof("generated %d arrivals over %.1f minutes (seed %d)", len(arrivals), r.p.Duration, r.p.Seed)
	for _, at := range arrivals {
		at := at
		r.kernel.Go("party", func(p *kernel.Proc) {
			p.Sleep(at - p.Now())
			r.partyProcess(p, at)
		})
	}

	r.kernel.Run(r.p.Duration)
	logrus.Infof("simulation ended: %d parties, %d dishes, revenue %.2f",
		len(r.parties), len(r.allDishes), r.totalRevenue)
	return r.Results()
}

// releaseTables returns tables to their zone's available set and re-arms the
// table matcher.
func (r *Restaurant) releaseTables(tableIDs []int, zoneID int) {
	for _, id := range tableIDs {
		if avail, ok := r.availableTablesByZone[zoneID]; ok {
			avail[id] = true
		}
	}
	r.guestQueueTrig.fire()
}

// event records a state-transition event and, throttle permitting, a full
// snapshot.
func (r *Restaurant) event(eventType string, entityID int, fromState, toState string, details map[string]any) {
	if !r.p.EnableLogging {
		return
	}
	r.collector.RecordEvent(trace.Event{
		EventType: eventType,
		Timestamp: r.kernel.Now(),
		EntityID:  entityID,
		FromState: fromState,
		ToState:   toState,
		Details:   details,
	})
	if r.collector.ShouldSnapshot(r.kernel.Now()) {
		r.collector.RecordSnapshot(r.captureSnapshot())
	}
}

// periodicBackupLogger emits fixed-interval snapshots alongside the
// event-driven ones.
func (r *Restaurant) periodicBackupLogger(p *kernel.Proc) {
	for {
		p.Sleep(r.p.PeriodicBackupInterval)
		r.collector.RecordSnapshot(r.captureSnapshot())
	}
}
