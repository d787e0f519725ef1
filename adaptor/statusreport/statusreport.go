// Package statusreport renders install/uninstall outcomes as JSON lines for
// --quiet or otherwise scripted invocations, so a wrapping process can parse
// progress and results without screen-scraping the guided UI's text.
package statusreport

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/plan"
)

// Reporter writes one JSON object per line to an underlying writer.
type Reporter struct {
	w io.Writer
}

// New creates a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// planSummary is the JSON shape emitted once before an install begins.
type planSummary struct {
	Event          string `json:"event"`
	DisplayName    string `json:"display_name"`
	DisplayVersion string `json:"display_version"`
	ManifestPath   string `json:"manifest_path"`
	FileCount      int    `json:"file_count"`
	TotalBytes     uint64 `json:"total_bytes"`
}

// PlanStarted reports the resolved plan before the executor begins copying.
func (r *Reporter) PlanStarted(p plan.InstallPlan) error {
	return r.emit(planSummary{
		Event:          "plan_started",
		DisplayName:    p.DisplayName,
		DisplayVersion: p.DisplayVersion,
		ManifestPath:   p.ManifestPath,
		FileCount:      len(p.Files),
		TotalBytes:     p.TotalFileSize(),
	})
}

type progressEvent struct {
	Event        string `json:"event"`
	CurrentBytes uint64 `json:"current_bytes"`
	TotalBytes   uint64 `json:"total_bytes"`
}

// Progress reports cumulative bytes copied or removed.
func (r *Reporter) Progress(current, total uint64) error {
	return r.emit(progressEvent{Event: "progress", CurrentBytes: current, TotalBytes: total})
}

type resultEvent struct {
	Event   string `json:"event"`
	Success bool   `json:"success"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result reports the final outcome of an install or uninstall operation.
func (r *Reporter) Result(err error) error {
	if err == nil {
		return r.emit(resultEvent{Event: "result", Success: true})
	}
	return r.emit(resultEvent{
		Event:   "result",
		Success: false,
		Kind:    ierr.KindOf(err).String(),
		Message: err.Error(),
	})
}

func (r *Reporter) emit(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("statusreport: marshal event: %w", err)
	}
	if _, err := r.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("statusreport: write event: %w", err)
	}
	return nil
}
