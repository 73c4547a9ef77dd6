package worker

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/tejasvp/resultboard/internal/domain/model"
)

// Lifecycle events for an analysis job.
const (
	eventStart    = "start"
	eventComplete = "complete"
	eventFail     = "fail"
)

// jobLifecycle guards the legal state transitions of one analysis job:
// pending -> running -> completed | failed. A job that never started can
// still fail (e.g. the store rejected it).
type jobLifecycle struct {
	machine *fsm.FSM
}

func newJobLifecycle() *jobLifecycle {
	return &jobLifecycle{
		machine: fsm.NewFSM(
			model.JobPending,
			fsm.Events{
				{Name: eventStart, Src: []string{model.JobPending}, Dst: model.JobRunning},
				{Name: eventComplete, Src: []string{model.JobRunning}, Dst: model.JobCompleted},
				{Name: eventFail, Src: []string{model.JobPending, model.JobRunning}, Dst: model.JobFailed},
			},
			fsm.Callbacks{},
		),
	}
}

// fire advances the lifecycle or reports the illegal transition.
func (l *jobLifecycle) fire(ctx context.Context, event string) error {
	if err := l.machine.Event(ctx, event); err != nil {
		return fmt.Errorf("job lifecycle %q from %q: %w", event, l.machine.Current(), err)
	}
	return nil
}

// current returns the job's present state name.
func (l *jobLifecycle) current() string {
	return l.machine.Current()
}
