// Package trace provides state-transition event records and point-in-time
// snapshots for a simulation run. It stores pure data types with no
// dependency on the engine; the sim package serializes its entities into
// these records.
package trace

// Event types logged by the engine.
const (
	EventPartyArrived     = "party_arrived"
	EventPartySeated      = "party_seated"
	EventOrderCreated     = "order_created"
	EventDishStarted      = "dish_started"
	EventDishCompleted    = "dish_completed"
	EventDishExpoStart    = "dish_expo_start"
	EventDishExpoComplete = "dish_expo_complete"
	EventDishDelivered    = "dish_delivered"
	EventTaskCreated      = "task_created"
	EventTaskStarted      = "task_started"
	EventTaskCompleted    = "task_completed"
	EventPartyDeparted    = "party_departed"
)

// Event is one chronological state-transition record.
type Event struct {
	EventType string         `json:"event_type"`
	Timestamp float64        `json:"timestamp"`
	EntityID  int            `json:"entity_id"`
	FromState string         `json:"from_state,omitempty"`
	ToState   string         `json:"to_state,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ComponentRecord is a serialized dish component.
type ComponentRecord struct {
	ID             int      `json:"id"`
	DishID         int      `json:"dish_id"`
	OrderID        int      `json:"order_id"`
	StationName    string   `json:"station_name"`
	PrepTimeMu     float64  `json:"prep_time_mu"`
	PrepTimeSigma  float64  `json:"prep_time_sigma"`
	QueueTime      *float64 `json:"queue_time"`
	StartTime      *float64 `json:"start_time"`
	CompleteTime   *float64 `json:"complete_time"`
	ActualPrepTime *float64 `json:"actual_prep_time"`
	Status         string   `json:"status"`
}

// DishRecord is a serialized dish with its components.
type DishRecord struct {
	ID               int               `json:"id"`
	OrderID          int               `json:"order_id"`
	DishType         string            `json:"dish_type"`
	QueueTime        *float64          `json:"queue_time"`
	StartTime        *float64          `json:"start_time"`
	CompleteTime     *float64          `json:"complete_time"`
	PrepTime         *float64          `json:"prep_time"`
	ExpoStartTime    *float64          `json:"expo_start_time"`
	ExpoCompleteTime *float64          `json:"expo_complete_time"`
	Price            float64           `json:"price"`
	Description      string            `json:"description,omitempty"`
	Status           string            `json:"status"`
	Components       []ComponentRecord `json:"components"`
}

// PartyRecord is a serialized party with its full timestamp set.
type PartyRecord struct {
	ID                 int      `json:"id"`
	ArrivalTime        float64  `json:"arrival_time"`
	PartySize          int      `json:"party_size"`
	ZoneID             *int     `json:"zone_id"`
	TablesAssigned     []int    `json:"tables_assigned"`
	HostQueueTime      *float64 `json:"host_queue_time"`
	WalkStartTime      *float64 `json:"walk_start_time"`
	TableAssignedTime  *float64 `json:"table_assigned_time"`
	OrderingStart      *float64 `json:"ordering_start"`
	OrderingComplete   *float64 `json:"ordering_complete"`
	KitchenStart       *float64 `json:"kitchen_start"`
	AllDishesReady     *float64 `json:"all_dishes_ready"`
	FirstDeliveryTime  *float64 `json:"first_delivery_time"`
	AllDishesDelivered *float64 `json:"all_dishes_delivered"`
	DiningStart        *float64 `json:"dining_start"`
	DiningComplete     *float64 `json:"dining_complete"`
	PaymentStart       *float64 `json:"payment_start"`
	PaymentComplete    *float64 `json:"payment_complete"`
	CleanupStart       *float64 `json:"cleanup_start"`
	DepartureTime      *float64 `json:"departure_time"`
	DishesDelivered    int      `json:"dishes_delivered_count"`
	TotalDishes        int      `json:"total_dishes"`
	CheckTotal         float64  `json:"check_total"`
	Status             string   `json:"status"`
}

// TaskRecord is a serialized staff task.
type TaskRecord struct {
	ID            int      `json:"id"`
	TaskType      string   `json:"task_type"`
	PartyID       int      `json:"party_id"`
	ZoneID        int      `json:"zone_id"`
	CreatedTime   float64  `json:"created_time"`
	StartedTime   *float64 `json:"started_time"`
	CompletedTime *float64 `json:"completed_time"`
	AssignedTo    string   `json:"assigned_to,omitempty"`
	OrderID       int      `json:"order_id,omitempty"`
	NumDishes     int      `json:"num_dishes,omitempty"`
	TableIDs      []int    `json:"table_ids,omitempty"`
}

// TableRecord is a serialized table occupancy entry.
type TableRecord struct {
	ID          int  `json:"id"`
	Size        int  `json:"size"`
	ZoneID      int  `json:"zone_id"`
	PartyID     *int `json:"party_id"`
	IsAvailable bool `json:"is_available"`
}

// StationRecord is a serialized kitchen station.
type StationRecord struct {
	ID               int              `json:"id"`
	Name             string           `json:"name"`
	Capacity         int              `json:"capacity"`
	BusySlots        int              `json:"busy_slots"`
	BusyTime         float64          `json:"busy_time"`
	DishesPrepared   int              `json:"dishes_prepared"`
	QueueLength      int              `json:"queue_length"`
	ActiveComponents []map[string]int `json:"active_components"`
}

// OrderRecord is a serialized order with its dishes.
type OrderRecord struct {
	OrderID     int          `json:"order_id"`
	PartyID     int          `json:"party_id"`
	Dishes      []DishRecord `json:"dishes"`
	TotalDishes int          `json:"total_dishes"`
	Status      string       `json:"status"`
}

// Snapshot is a point-in-time dump of the whole system.
type Snapshot struct {
	Time             float64        `json:"time"`
	GuestQueueLength int            `json:"guest_queue_length"`
	HostQueueLength  int            `json:"host_queue_length"`
	PartiesInSystem  int            `json:"parties_in_system"`
	PartiesServed    int            `json:"parties_served"`
	TotalRevenue     float64        `json:"total_revenue"`
	ExpoQueueLength  int            `json:"expo_queue_length"`
	FoodRunnerQueue  int            `json:"food_runner_queue"`
	BusserQueue      int            `json:"busser_queue"`
	StationQueues    map[string]int `json:"station_queues"`
	StationBusy      map[string]int `json:"station_busy"`
	ZoneQueues       map[string]int `json:"zone_queues"`

	Parties  []PartyRecord   `json:"parties"`
	Dishes   []DishRecord    `json:"dishes"`
	Orders   []OrderRecord   `json:"orders"`
	Tasks    []TaskRecord    `json:"tasks"`
	Tables   []TableRecord   `json:"tables"`
	Stations []StationRecord `json:"stations"`
}
