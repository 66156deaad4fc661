// Package metrics standardises the counters and timings emitted by services.
package metrics

import (
	"time"

	obserrors "github.com/agbarbie/Rural-Connect-sub000/internal/observability/errors"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
	ResultPartial = "partial"
)

// Operation captures one service operation for metric emission.
type Operation struct {
	// Name is the metric stem, e.g. "application.apply".
	Name     string
	Result   string
	Duration time.Duration
	Err      error
	Tags     map[string]string
}

// Emit counts the operation under Name and records its duration under Name+".duration".
func Emit(sink statsd.Sink, op Operation) {
	if sink == nil || op.Name == "" {
		return
	}

	result := op.Result
	if result == "" {
		result = ResultFor(op.Err)
	}
	tags := CloneTags(op.Tags)
	if tags == nil {
		tags = make(map[string]string, 2)
	}
	tags["result"] = result
	if op.Err != nil && result == ResultError {
		if class := obserrors.Classify(op.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count(op.Name, 1, tags)
	if op.Duration > 0 {
		sink.Timing(op.Name+".duration", op.Duration, CloneTags(tags))
	}
}

// ResultFor maps an error to ResultSuccess or ResultError.
func ResultFor(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
