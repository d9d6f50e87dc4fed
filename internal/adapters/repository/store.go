// Package repository holds the immutable table snapshots that queries read.
package repository

import (
	"context"
	"time"

	"github.com/okian/rosterlens/internal/domain/model"
)

// Kind names the part of the snapshot a load replaces.
type Kind string

// Load kinds.
const (
	KindWeekly Kind = "weekly"
	KindSeason Kind = "season"
)

// LoadReport summarises a completed load.
type LoadReport struct {
	SnapshotID  string        `json:"snapshot_id"`
	Kind        Kind          `json:"kind"`
	Root        string        `json:"root"`
	Tables      int           `json:"tables"`
	Rows        int           `json:"rows"`
	Weeks       int           `json:"weeks"`
	Ambiguities int           `json:"ambiguities"`
	Duration    time.Duration `json:"duration"`
	Warnings    []error       `json:"-"`
}

// WarningMessages returns the warnings as strings for transport.
func (r LoadReport) WarningMessages() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.Error()
	}
	return out
}

// ReloadReport describes a reload of both halves of the snapshot. A half
// that failed keeps its previous tables and is reported in Errors.
type ReloadReport struct {
	Season   *LoadReport `json:"season,omitempty"`
	Weekly   *LoadReport `json:"weekly,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Store provides load and read access to the table snapshots.
type Store interface {
	// LoadWeekly parses every week unit under root and replaces the weekly
	// tables wholesale. Per-file failures become warnings.
	LoadWeekly(ctx context.Context, root string) (LoadReport, error)
	// LoadSeason parses the season tables under root and replaces them wholesale.
	LoadSeason(ctx context.Context, root string) (LoadReport, error)
	// Reload parses both halves under root and publishes them as one
	// snapshot. It fails only when both halves fail.
	Reload(ctx context.Context, root string) (ReloadReport, error)

	// Table returns the season table when week is empty, otherwise the
	// weekly table. An absent table is reported as model.ErrEmptyResult.
	Table(ctx context.Context, week string, category model.Category) (*model.Table, error)

	// Snapshot returns the current snapshot. It never returns nil.
	Snapshot() *Snapshot
}
