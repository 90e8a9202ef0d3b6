package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/restaurant-sim/restaurant-sim/sim"
)

var (
	// CLI flags for the simulation run
	seed           int64   // Seed for all stochastic draws
	duration       float64 // Total simulated service window (in minutes)
	logLevel       string  // Log verbosity level
	paramsFile     string  // Optional YAML parameters file
	recipesFile    string  // Optional YAML recipes file
	numServers     int     // Servers (also the zone count)
	numHosts       int     // Hosts walking parties to tables
	numFoodRunners int     // Dedicated food runners
	numBussers     int     // Dedicated bussers
	numCooks       int     // Cooks apportioned across stations
	expoCapacity   int     // Concurrent expo quality checks
	exportPath     string  // Write the full snapshot/event log here
	eventsOnly     bool    // Export only the event log
	disableLogging bool    // Skip snapshot/event collection entirely
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "restaurant-sim",
	Short: "Discrete-event simulator for full-service restaurants",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the restaurant simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		params := sim.DefaultParameters()
		if paramsFile != "" {
			params, err = sim.LoadParameters(paramsFile)
			if err != nil {
				logrus.Fatalf("unable to read parameters file: %v", err)
			}
		}
		if recipesFile != "" {
			recipes, err := sim.LoadRecipes(recipesFile)
			if err != nil {
				logrus.Fatalf("unable to read recipes file: %v", err)
			}
			params.Recipes = recipes
		}

		applyFlagOverrides(cmd, &params)

		recipes := params.Recipes
		if recipes == nil {
			recipes = sim.DefaultRecipes()
		}
		if err := sim.ValidateRecipes(recipes, params.StationNames()); err != nil {
			logrus.Fatalf("invalid recipes: %v", err)
		}

		logrus.Infof("Starting simulation: duration=%.0fmin servers=%d cooks=%d seed=%d",
			params.Duration, params.NumServers, params.NumCooks, params.Seed)

		startTime := time.Now()
		restaurant := sim.New(params)
		results := restaurant.Run()

		fmt.Print(sim.FormatResults(results))
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))

		if exportPath != "" {
			meta := restaurant.Metadata()
			if eventsOnly {
				err = restaurant.Collector().ExportEvents(exportPath, meta)
			} else {
				err = restaurant.Collector().ExportAll(exportPath, meta)
			}
			if err != nil {
				logrus.Fatalf("unable to export logs: %v", err)
			}
			logrus.Infof("Logs exported to %s", exportPath)
		}
	},
}

// applyFlagOverrides copies flag values into params, but only for flags
// explicitly set on the command line, so a parameters file keeps its values
// for anything the user did not override.
func applyFlagOverrides(cmd *cobra.Command, params *sim.Parameters) {
	if cmd.Flags().Changed("seed") {
		params.Seed = seed
	}
	if cmd.Flags().Changed("duration") {
		params.Duration = duration
	}
	if cmd.Flags().Changed("servers") {
		params.NumServers = numServers
	}
	if cmd.Flags().Changed("hosts") {
		params.NumHosts = numHosts
	}
	if cmd.Flags().Changed("food-runners") {
		params.NumFoodRunners = numFoodRunners
	}
	if cmd.Flags().Changed("bussers") {
		params.NumBussers = numBussers
	}
	if cmd.Flags().Changed("cooks") {
		params.NumCooks = numCooks
	}
	if cmd.Flags().Changed("expo-capacity") {
		params.ExpoCapacity = expoCapacity
	}
	if disableLogging {
		params.EnableLogging = false
		params.EnableEventLogging = false
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for all stochastic draws")
	runCmd.Flags().Float64Var(&duration, "duration", 240, "Simulated service window in minutes")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&paramsFile, "params", "", "YAML parameters file (fields override defaults)")
	runCmd.Flags().StringVar(&recipesFile, "recipes", "", "YAML recipes file")

	runCmd.Flags().IntVar(&numServers, "servers", 6, "Number of servers (one zone each)")
	runCmd.Flags().IntVar(&numHosts, "hosts", 1, "Number of hosts")
	runCmd.Flags().IntVar(&numFoodRunners, "food-runners", 2, "Number of food runners")
	runCmd.Flags().IntVar(&numBussers, "bussers", 0, "Number of bussers")
	runCmd.Flags().IntVar(&numCooks, "cooks", 9, "Number of cooks")
	runCmd.Flags().IntVar(&expoCapacity, "expo-capacity", 2, "Concurrent expo quality checks")

	runCmd.Flags().StringVar(&exportPath, "export", "", "Write the snapshot/event log to this JSON file")
	runCmd.Flags().BoolVar(&eventsOnly, "events-only", false, "Export only the event log")
	runCmd.Flags().BoolVar(&disableLogging, "no-logging", false, "Disable snapshot/event collection")

	rootCmd.AddCommand(runCmd)
}
