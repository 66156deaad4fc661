package service

import (
	"context"
	"sync"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

func ptrTo[T any](v T) *T { return &v }

// recordingNotifier is a hand-written ApplicationNotifier and BroadcastNotifier.
type recordingNotifier struct {
	mu sync.Mutex

	received  []*model.ApplicationContext
	withdrawn []*model.ApplicationContext
	statuses  []model.ApplicationStatus
	newJob    []string
	savedJob  map[model.SavedJobChange][]string

	// failFor makes dispatch to these user ids fail.
	failFor map[string]error
	err     error
}

func (n *recordingNotifier) NotifyEmployerAboutApplication(_ context.Context, ac *model.ApplicationContext) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, ac)
	return n.err
}

func (n *recordingNotifier) NotifyEmployerAboutWithdrawal(_ context.Context, ac *model.ApplicationContext) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.withdrawn = append(n.withdrawn, ac)
	return n.err
}

func (n *recordingNotifier) NotifyJobseekerAboutApplicationStatus(
	_ context.Context,
	_ *model.ApplicationContext,
	status model.ApplicationStatus,
) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, status)
	return n.err
}

func (n *recordingNotifier) NotifyJobseekerAboutNewJob(
	_ context.Context,
	userID string,
	_ *model.JobWithCompany,
	_ []string,
) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failFor[userID]; err != nil {
		return err
	}
	n.newJob = append(n.newJob, userID)
	return nil
}

func (n *recordingNotifier) NotifyJobseekerSavedJob(
	_ context.Context,
	userID string,
	_ *model.JobWithCompany,
	change model.SavedJobChange,
) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failFor[userID]; err != nil {
		return err
	}
	if n.savedJob == nil {
		n.savedJob = make(map[model.SavedJobChange][]string)
	}
	n.savedJob[change] = append(n.savedJob[change], userID)
	return nil
}

// notified is a point-in-time copy of what a recordingNotifier saw.
type notified struct {
	received  []*model.ApplicationContext
	withdrawn []*model.ApplicationContext
	statuses  []model.ApplicationStatus
	newJob    []string
	savedJob  map[model.SavedJobChange][]string
}

func (n *recordingNotifier) snapshot() notified {
	n.mu.Lock()
	defer n.mu.Unlock()
	saved := make(map[model.SavedJobChange][]string, len(n.savedJob))
	for k, v := range n.savedJob {
		saved[k] = append([]string(nil), v...)
	}
	return notified{
		received:  append([]*model.ApplicationContext(nil), n.received...),
		withdrawn: append([]*model.ApplicationContext(nil), n.withdrawn...),
		statuses:  append([]model.ApplicationStatus(nil), n.statuses...),
		newJob:    append([]string(nil), n.newJob...),
		savedJob:  saved,
	}
}
