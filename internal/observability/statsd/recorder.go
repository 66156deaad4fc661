package statsd

import (
	"sync"
	"time"
)

// Sample is one metric observed by a Recorder.
type Sample struct {
	Name     string
	Value    float64
	Duration time.Duration
	Tags     map[string]string
}

// Recorder is an in-memory Sink used by tests and the admin CLI dry runs.
type Recorder struct {
	mu      sync.Mutex
	counts  []Sample
	gauges  []Sample
	timings []Sample
}

var _ Sink = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Count implements Sink.
func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, Sample{Name: name, Value: float64(value), Tags: cleanTags(tags)})
}

// Gauge implements Sink.
func (r *Recorder) Gauge(name string, value float64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gauges = append(r.gauges, Sample{Name: name, Value: value, Tags: cleanTags(tags)})
}

// Timing implements Sink.
func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings = append(r.timings, Sample{Name: name, Duration: value, Tags: cleanTags(tags)})
}

// Counts returns the counter samples recorded under name.
func (r *Recorder) Counts(name string) []Sample { return r.filter(r.counts, name) }

// Gauges returns the gauge samples recorded under name.
func (r *Recorder) Gauges(name string) []Sample { return r.filter(r.gauges, name) }

// Timings returns the timing samples recorded under name.
func (r *Recorder) Timings(name string) []Sample { return r.filter(r.timings, name) }

// Total sums the counter values recorded under name.
func (r *Recorder) Total(name string) int64 {
	var total int64
	for _, s := range r.Counts(name) {
		total += int64(s.Value)
	}
	return total
}

func (r *Recorder) filter(samples []Sample, name string) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sample
	for _, s := range samples {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
