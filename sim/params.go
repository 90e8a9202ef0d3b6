package sim

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Parameters enumerates every input of a simulation run: floor plan, staff
// counts, station weights, stage-duration distribution parameters, the
// arrival-rate curve, pricing, logging knobs, and the random seed.
// Loaded from YAML via LoadParameters(path); zero-config runs use
// DefaultParameters().
type Parameters struct {
	// Floor plan: one entry per table, value = seat count.
	TableSizes []int   `yaml:"table_sizes"`
	Duration   float64 `yaml:"duration"` // simulation horizon in minutes

	// Arrival NHPP: rate(t) = base + peak * exp(-(t-peakTime)^2 / (2*width^2)).
	LambdaBase           float64 `yaml:"lambda_base"`            // parties/min
	LambdaPeakMultiplier float64 `yaml:"lambda_peak_multiplier"` // parties/min
	PeakTime             float64 `yaml:"peak_time"`              // minutes
	PeakWidth            float64 `yaml:"peak_width"`             // minutes

	// Front of house staff.
	NumServers     int `yaml:"num_servers"` // also the zone count
	NumHosts       int `yaml:"num_hosts"`
	NumFoodRunners int `yaml:"num_food_runners"`
	NumBussers     int `yaml:"num_bussers"`

	// Back of house: station capacity weights drive cook apportionment.
	StationWeights  map[string]int `yaml:"station_weights"`
	NumCooks        int            `yaml:"num_cooks"`
	CookConcurrency int            `yaml:"cook_concurrency"` // components per cook

	// Expo quality gate.
	ExpoCapacity      int     `yaml:"expo_capacity"`
	ExpoCheckTimeMean float64 `yaml:"expo_check_time_mean"`
	ExpoCheckTimeStd  float64 `yaml:"expo_check_time_std"`

	// Hourly wages (USD).
	ServerHourlyWage     float64 `yaml:"server_hourly_wage"`
	CookHourlyWage       float64 `yaml:"cook_hourly_wage"`
	HostHourlyWage       float64 `yaml:"host_hourly_wage"`
	FoodRunnerHourlyWage float64 `yaml:"food_runner_hourly_wage"`
	BusserHourlyWage     float64 `yaml:"busser_hourly_wage"`

	// Host and seating timing.
	WalkingToTableMean      float64 `yaml:"walking_to_table_mean"`
	WalkingToTableStd       float64 `yaml:"walking_to_table_std"`
	HostQueueProcessingTime float64 `yaml:"host_queue_processing_time"`

	// Stage service-time parameters.
	DecisionBaseMean      float64 `yaml:"decision_base_mean"`
	DecisionPerPersonMean float64 `yaml:"decision_per_person_mean"`
	DecisionStd           float64 `yaml:"decision_std"`
	OrderingTakingMean    float64 `yaml:"ordering_taking_mean"`
	OrderingTakingStd     float64 `yaml:"ordering_taking_std"`
	DeliveryBaseMean      float64 `yaml:"delivery_base_mean"`
	DeliveryStd           float64 `yaml:"delivery_std"`
	PaymentBaseMean       float64 `yaml:"payment_base_mean"`
	PaymentPerPersonMean  float64 `yaml:"payment_per_person_mean"`
	PaymentStd            float64 `yaml:"payment_std"`
	CleanupBaseMean       float64 `yaml:"cleanup_base_mean"`
	CleanupPerPersonMean  float64 `yaml:"cleanup_per_person_mean"`
	CleanupStd            float64 `yaml:"cleanup_std"`

	// Dining time (lognormal, mu scales with party size).
	DiningBaseMu      float64 `yaml:"dining_base_mu"`
	DiningPerPersonMu float64 `yaml:"dining_per_person_mu"`
	DiningSigma       float64 `yaml:"dining_sigma"`

	// Order model: dishes per person drawn uniformly in [low, high].
	AvgDishesPerPersonLow  float64 `yaml:"avg_dishes_per_person_low"`
	AvgDishesPerPersonHigh float64 `yaml:"avg_dishes_per_person_high"`

	// Pricing.
	PricePerDish    float64 `yaml:"price_per_dish"` // fallback when a dish has no catalog entry
	DrinkSupplement float64 `yaml:"drink_supplement"`

	// Menu configuration; nil values fall back to the built-in defaults.
	Recipes          Recipes            `yaml:"recipes"`
	MenuDistribution map[string]float64 `yaml:"menu_distribution"`
	MenuCatalog      MenuCatalog        `yaml:"menu_catalog"`

	// Logging.
	EnableLogging          bool    `yaml:"enable_logging"`
	EnableEventLogging     bool    `yaml:"enable_event_logging"`
	MinSnapshotInterval    float64 `yaml:"min_snapshot_interval"`
	EnablePeriodicBackup   bool    `yaml:"enable_periodic_backup"`
	PeriodicBackupInterval float64 `yaml:"periodic_backup_interval"`

	Seed int64 `yaml:"seed"`
}

// DefaultParameters returns the baseline configuration: 41 tables, a
// four-hour service with a fitted Gaussian-peak arrival curve, and the
// five-station Mexican kitchen.
func DefaultParameters() Parameters {
	sizes := make([]int, 0, 41)
	for i := 0; i < 23; i++ {
		sizes = append(sizes, 2)
	}
	for i := 0; i < 11; i++ {
		sizes = append(sizes, 4)
	}
	for i := 0; i < 6; i++ {
		sizes = append(sizes, 6)
	}
	sizes = append(sizes, 10)

	return Parameters{
		TableSizes: sizes,
		Duration:   240.0,

		LambdaBase:           0.036463,
		LambdaPeakMultiplier: 0.491057,
		PeakTime:             57.39,
		PeakWidth:            92.84,

		NumServers:     6,
		NumHosts:       1,
		NumFoodRunners: 2,
		NumBussers:     0,

		StationWeights: map[string]int{
			StationWoodGrill: 2,
			StationSalad:     3,
			StationSautee:    2,
			StationTortilla:  3,
			StationGuac:      2,
		},
		NumCooks:        9,
		CookConcurrency: 2,

		ExpoCapacity:      2,
		ExpoCheckTimeMean: 0.2,
		ExpoCheckTimeStd:  0.05,

		ServerHourlyWage:     34.727143,
		CookHourlyWage:       22.6,
		HostHourlyWage:       20.4,
		FoodRunnerHourlyWage: 21.8,
		BusserHourlyWage:     25.0,

		WalkingToTableMean:      0.5,
		WalkingToTableStd:       0.15,
		HostQueueProcessingTime: 0.1,

		DecisionBaseMean:      1.5,
		DecisionPerPersonMean: 0.5,
		DecisionStd:           0.8,
		OrderingTakingMean:    1.5,
		OrderingTakingStd:     0.5,
		DeliveryBaseMean:      1.0,
		DeliveryStd:           0.5,
		PaymentBaseMean:       2.0,
		PaymentPerPersonMean:  0.3,
		PaymentStd:            1.0,
		CleanupBaseMean:       3.0,
		CleanupPerPersonMean:  0.3,
		CleanupStd:            0.75,

		DiningBaseMu:      2.8,
		DiningPerPersonMu: 0.1,
		DiningSigma:       0.35,

		AvgDishesPerPersonLow:  1.0,
		AvgDishesPerPersonHigh: 1.5,

		PricePerDish:    22.0,
		DrinkSupplement: 0.0,

		EnableLogging:          true,
		EnableEventLogging:     true,
		MinSnapshotInterval:    0.5,
		EnablePeriodicBackup:   false,
		PeriodicBackupInterval: 5.0,

		Seed: 42,
	}
}

// LoadParameters reads a YAML parameters file over the defaults, so a file
// only needs to name the fields it changes.
func LoadParameters(path string) (Parameters, error) {
	p := DefaultParameters()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read parameters: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse parameters: %w", err)
	}
	return p, nil
}

// RateAt returns the NHPP arrival rate (parties/min) at time t.
func (p *Parameters) RateAt(t float64) float64 {
	d := t - p.PeakTime
	return p.LambdaBase + p.LambdaPeakMultiplier*math.Exp(-(d*d)/(2*p.PeakWidth*p.PeakWidth))
}

// MaxRate returns the dominating rate used for thinning: the Gaussian peak
// never exceeds base + multiplier.
func (p *Parameters) MaxRate() float64 {
	return p.LambdaBase + p.LambdaPeakMultiplier
}

// StationNames returns the kitchen's stations in declaration order. The
// order is load-bearing: apportionment ties and weighted draws follow it.
func (p Parameters) StationNames() []string {
	return []string{StationWoodGrill, StationSalad, StationSautee, StationTortilla, StationGuac}
}
