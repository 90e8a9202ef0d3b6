package sim

// Timestamps are pointers: nil means the stage was never reached. The final
// output relies on that (a party never seated reports a null
// table_assigned_time).

// f64 returns a pointer to v, for stamping optional timestamps.
func f64(v float64) *float64 {
	p := new(float64)
	*p = v
	return p
}

// ==========================================================================
// TASKS
// ==========================================================================

// TaskKind discriminates the task union. Only dispatch eligibility and
// duration computation differ per kind.
type TaskKind int

const (
	TaskOrdering TaskKind = iota // server-only: take the order
	TaskCheckout                 // server-only: process payment
	TaskDelivery                 // server or food runner: deliver a dish
	TaskCleaning                 // server or busser: clean the tables
)

func (k TaskKind) String() string {
	switch k {
	case TaskOrdering:
		return "ORDERING"
	case TaskCheckout:
		return "CHECKOUT"
	case TaskDelivery:
		return "DELIVERY"
	case TaskCleaning:
		return "CLEANING"
	default:
		return "UNKNOWN"
	}
}

// Task is a unit of staff work. Delivery tasks carry OrderID/NumDishes/
// DishID; cleaning tasks carry TableIDs; the other kinds use only the base
// fields. A task may sit in several queues at once, but the active-task
// registry is the single source of truth for claims; queue entries whose
// task has left the registry are stale and silently discarded.
type Task struct {
	ID            int
	Kind          TaskKind
	PartyID       int
	ZoneID        int
	CreatedTime   float64
	StartedTime   *float64
	CompletedTime *float64
	AssignedTo    string // e.g. "server_zone_2", "food_runner"

	// Delivery payload.
	OrderID   int
	NumDishes int
	DishID    int // 0 = whole-order delivery (not used by the single-dish flow)

	// Cleaning payload.
	TableIDs []int
}

// ==========================================================================
// DISHES
// ==========================================================================

// DishComponent is one station's share of a dish. It occupies exactly one
// cook slot and one station busy-slot while cooking.
type DishComponent struct {
	ID             int
	DishID         int
	OrderID        int
	StationName    string
	PrepTimeMu     float64
	PrepTimeSigma  float64
	QueueTime      *float64
	StartTime      *float64
	CompleteTime   *float64
	ActualPrepTime *float64
}

// Dish is a menu item in an order. It is complete when every component is
// complete; its prep time is the max of component prep times, since
// components cook in parallel.
type Dish struct {
	ID               int
	OrderID          int
	DishType         string
	QueueTime        *float64
	StartTime        *float64 // first component start
	CompleteTime     *float64 // last component completion
	PrepTime         *float64 // max component prep time
	ExpoStartTime    *float64
	ExpoCompleteTime *float64
	Components       []*DishComponent
	Price            float64
	Description      string
}

// ==========================================================================
// PARTIES
// ==========================================================================

// Party is a group of guests. Its optional timestamps are monotonically
// non-decreasing in declaration order; a later stage is never stamped while
// an earlier one is unset.
type Party struct {
	ID             int
	ArrivalTime    float64
	PartySize      int
	ZoneID         int
	Zoned          bool // ZoneID is meaningful only after a table matched
	TablesAssigned []int

	HostQueueTime      *float64
	WalkStartTime      *float64
	TableAssignedTime  *float64
	OrderingStart      *float64
	OrderingComplete   *float64
	KitchenStart       *float64
	AllDishesReady     *float64
	FirstDeliveryTime  *float64 // diagnostic only; dining gates on AllDishesDelivered
	AllDishesDelivered *float64
	DiningStart        *float64
	DiningComplete     *float64
	PaymentStart       *float64
	PaymentComplete    *float64
	CleanupStart       *float64
	DepartureTime      *float64

	DishesDeliveredCount int
	TotalDishes          int
	CheckTotal           float64
}

// PartyStatus derives the party's state from its timestamps,
// most-specific-first, so state and timestamps can never diverge.
func PartyStatus(p *Party) string {
	switch {
	case p.DepartureTime != nil:
		return "departed"
	case p.CleanupStart != nil:
		return "cleaning"
	case p.PaymentStart != nil:
		return "paying"
	case p.DiningStart != nil:
		return "dining"
	case p.FirstDeliveryTime != nil:
		return "dining"
	case p.KitchenStart != nil:
		return "waiting_for_food"
	case p.OrderingStart != nil:
		if p.OrderingComplete != nil {
			return "waiting_for_food"
		}
		return "ordering"
	case p.TableAssignedTime != nil:
		return "deciding"
	case p.WalkStartTime != nil:
		return "being_seated"
	default:
		return "waiting_for_table"
	}
}

// DishStatus derives a dish's location from its timestamps.
func DishStatus(d *Dish) string {
	switch {
	case d.ExpoCompleteTime != nil:
		return "delivered"
	case d.ExpoStartTime != nil:
		return "expo_check"
	case d.CompleteTime != nil:
		return "expo_queue"
	case d.StartTime != nil:
		return "cooking"
	default:
		return "queued"
	}
}

// ComponentStatus derives a component's state from its timestamps.
func ComponentStatus(c *DishComponent) string {
	switch {
	case c.CompleteTime != nil:
		return "complete"
	case c.StartTime != nil:
		return "cooking"
	default:
		return "queued"
	}
}

// ==========================================================================
// KITCHEN
// ==========================================================================

// Station is a kitchen work center. Capacity = cooks assigned x per-cook
// concurrency; cookCounts tracks concurrent components per cook.
type Station struct {
	ID             int
	Name           string
	Capacity       int
	BusySlots      int
	BusyTime       float64
	ActiveSince    *float64
	DishesPrepared int

	cookCounts   []int // one entry per cook, 0..CookConcurrency
	cookBusyTime float64
}

// ==========================================================================
// STAFF BOOKKEEPING
// ==========================================================================

// StaffMember records per-person bookkeeping for hosts, runners and
// bussers; WorkDone counts parties seated / deliveries made / tables
// cleaned depending on role.
type StaffMember struct {
	ID       int
	BusyTime float64
	WorkDone int
}
