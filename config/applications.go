package config

import "time"

// ApplicationConfig controls the apply eligibility gate.
type ApplicationConfig struct {
	// CompletionThreshold is the minimum profile completion percentage (inclusive).
	CompletionThreshold int `env:"APPLICATION_COMPLETION_THRESHOLD" envDefault:"70"`
}

// Sanitize clamps the threshold to a valid percentage.
func (a *ApplicationConfig) Sanitize() {
	if a.CompletionThreshold < 0 {
		a.CompletionThreshold = 0
	}
	if a.CompletionThreshold > 100 {
		a.CompletionThreshold = 100
	}
}

// NotificationConfig controls notification dispatch and broadcast fan-out.
type NotificationConfig struct {
	// BroadcastBatchSize is the page size used when resolving broadcast audiences.
	BroadcastBatchSize int `env:"NOTIFY_BROADCAST_BATCH_SIZE" envDefault:"1000"`

	// BroadcastConcurrency bounds concurrent per-recipient dispatch within a batch.
	BroadcastConcurrency int `env:"NOTIFY_BROADCAST_CONCURRENCY" envDefault:"8"`

	// UnreadCacheTTL is how long unread counts stay cached in Redis.
	UnreadCacheTTL time.Duration `env:"NOTIFY_UNREAD_CACHE_TTL" envDefault:"5m"`

	// NewJobDedupeTTL suppresses repeated new-job broadcasts for the same job.
	NewJobDedupeTTL time.Duration `env:"NOTIFY_NEW_JOB_DEDUPE_TTL" envDefault:"24h"`

	// SavedJobUpdateThrottle suppresses repeated "saved job updated" broadcasts.
	SavedJobUpdateThrottle time.Duration `env:"NOTIFY_SAVED_JOB_UPDATE_THROTTLE" envDefault:"10m"`
}

// Sanitize applies guardrails to notification configuration values.
func (n *NotificationConfig) Sanitize() {
	if n.BroadcastBatchSize < 1 {
		n.BroadcastBatchSize = 1
	}
	if n.BroadcastBatchSize > 10000 {
		n.BroadcastBatchSize = 10000
	}
	if n.BroadcastConcurrency < 1 {
		n.BroadcastConcurrency = 1
	}
	if n.UnreadCacheTTL < 0 {
		n.UnreadCacheTTL = 0
	}
}
