package service

import (
	"context"
	"errors"
	"strconv"

	obserrors "github.com/agbarbie/Rural-Connect-sub000/internal/observability/errors"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify"
)

// FailureAlerter raises operator alerts for background failures.
type FailureAlerter interface {
	NotifyFailure(ctx context.Context, alert notify.Alert)
}

// raiseAlert sends alert for err unless alerting is off or err is a cancellation.
func raiseAlert(ctx context.Context, alerter FailureAlerter, alert notify.Alert, err error) {
	if alerter == nil || err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	alert.Error = err.Error()
	if alert.ErrorClass == "" {
		alert.ErrorClass = obserrors.Classify(err)
	}
	alerter.NotifyFailure(context.WithoutCancel(ctx), alert)
}

func broadcastAlert(event, jobID string, res BroadcastResult) notify.Alert {
	return notify.Alert{
		Component: "broadcast",
		Operation: event,
		Subject:   jobID,
		Summary:   "Job broadcast aborted",
		Severity:  notify.SeverityWarning,
		Metadata: map[string]string{
			"recipients": strconv.Itoa(res.Recipients),
			"delivered":  strconv.Itoa(res.Delivered),
			"failed":     strconv.Itoa(res.Failed),
		},
	}
}
