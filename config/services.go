package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeReaper runs the retention reaper.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes lists the modes a process can run.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeReaper}
}

// ParseServices turns a comma-separated SERVICES value into a set. Blank
// entries are ignored; an unknown mode or an empty set is an error.
func ParseServices(raw string) (map[ServiceMode]bool, error) {
	valid := ValidServiceModes()
	enabled := make(map[ServiceMode]bool, len(valid))
	for name := range strings.SplitSeq(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mode := ServiceMode(name)
		if !slices.Contains(valid, mode) {
			return nil, fmt.Errorf("unknown service %q (valid: %s)", name, joinModes(valid))
		}
		enabled[mode] = true
	}
	if len(enabled) == 0 {
		return nil, errors.New("no service selected")
	}
	return enabled, nil
}

func joinModes(modes []ServiceMode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// ReaperConfig tunes the retention sweep.
type ReaperConfig struct {
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"15m"`
	// Read notifications older than this are purged (90 days).
	NotificationMaxAge time.Duration `env:"REAPER_NOTIFICATION_MAX_AGE" envDefault:"2160h"`
	// Inactive applications older than this are purged (30 days). Reapplying
	// already removes the applicant's own inactive rows for that job.
	WithdrawnMaxAge time.Duration `env:"REAPER_WITHDRAWN_MAX_AGE" envDefault:"720h"`
	// BatchSize caps rows deleted per statement.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"1000"`
}

// Sanitize clamps values to a safe operating range.
func (r *ReaperConfig) Sanitize() {
	r.Interval = max(r.Interval, time.Minute)
	r.NotificationMaxAge = max(r.NotificationMaxAge, 24*time.Hour)
	r.WithdrawnMaxAge = max(r.WithdrawnMaxAge, 24*time.Hour)
	r.BatchSize = min(max(r.BatchSize, 1), 10000)
}
