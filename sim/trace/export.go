package trace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Metadata identifies a run in an exported log.
type Metadata struct {
	RunID        string  `json:"run_id"`
	Duration     float64 `json:"simulation_duration"`
	NumParties   int     `json:"num_parties,omitempty"`
	NumDishes    int     `json:"num_dishes,omitempty"`
	TotalRevenue float64 `json:"total_revenue,omitempty"`
	NumSnapshots int     `json:"num_snapshots,omitempty"`
	NumEvents    int     `json:"num_events,omitempty"`
}

// Log is the exported structure: metadata plus whichever of snapshots and
// events the caller includes.
type Log struct {
	Metadata  Metadata   `json:"metadata"`
	Snapshots []Snapshot `json:"snapshots,omitempty"`
	Events    []Event    `json:"events,omitempty"`
}

// NewMetadata stamps run identity and summary counts for export.
func NewMetadata(duration float64, numParties, numDishes int, totalRevenue float64, numSnapshots, numEvents int) Metadata {
	return Metadata{
		RunID:        uuid.NewString(),
		Duration:     duration,
		NumParties:   numParties,
		NumDishes:    numDishes,
		TotalRevenue: totalRevenue,
		NumSnapshots: numSnapshots,
		NumEvents:    numEvents,
	}
}

// ExportAll writes metadata, snapshots and events to a single JSON file.
func (c *Collector) ExportAll(path string, meta Metadata) error {
	return writeJSON(path, Log{Metadata: meta, Snapshots: c.Snapshots, Events: c.Events})
}

// ExportSnapshots writes metadata and snapshots only.
func (c *Collector) ExportSnapshots(path string, meta Metadata) error {
	meta.NumEvents = 0
	return writeJSON(path, Log{Metadata: meta, Snapshots: c.Snapshots})
}

// ExportEvents writes metadata and events only.
func (c *Collector) ExportEvents(path string, meta Metadata) error {
	meta.NumSnapshots = 0
	return writeJSON(path, Log{Metadata: meta, Events: c.Events})
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
