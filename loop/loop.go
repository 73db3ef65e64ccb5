// Package loop is the super loop: it invokes every registered protothread
// once per pass, in registration order, for as long as they keep running.
package loop

import (
	"context"
	"runtime"
	"time"

	"github.com/golang/glog"

	"coopdev-go/errcode"
	"coopdev-go/protothread"
)

// Faulter is implemented by tasks that can stop on an error, such as
// protothread.Thread after a nesting fault.
type Faulter interface {
	Err() error
}

// TaskFunc adapts a function to protothread.Runner.
type TaskFunc func() bool

func (f TaskFunc) Run() bool { return f() }

type entry struct {
	name string
	task protothread.Runner
	done bool
}

// Loop manages protothreads.
type Loop struct {
	// Interval between passes in Run. Zero runs passes back to back,
	// yielding the processor in between.
	Interval time.Duration

	tasks  []entry
	active int
	passes uint64
}

// New creates an empty Loop.
func New() *Loop {
	return &Loop{}
}

// Add registers a task under name.
func (l *Loop) Add(name string, task protothread.Runner) *Loop {
	l.tasks = append(l.tasks, entry{name: name, task: task})
	l.active++
	return l
}

// Active returns the number of tasks that have not exited.
func (l *Loop) Active() int { return l.active }

// Passes returns the number of completed Step calls.
func (l *Loop) Passes() uint64 { return l.passes }

// Step runs one pass. A task whose Run returns false is finished and is not
// invoked again. A finished task reporting an error stops the pass and the
// error is returned tagged with the task name.
func (l *Loop) Step() error {
	for i := range l.tasks {
		e := &l.tasks[i]
		if e.done {
			continue
		}
		if e.task.Run() {
			continue
		}
		e.done = true
		l.active--
		if f, ok := e.task.(Faulter); ok {
			if err := f.Err(); err != nil {
				glog.Errorf("task %s faulted: %v", e.name, err)
				return errcode.Wrap(errcode.Of(err), "loop: "+e.name, err)
			}
		}
		glog.Infof("task %s exited", e.name)
	}
	l.passes++
	return nil
}

// Run repeats Step until ctx is done, a task faults, or no task is left.
func (l *Loop) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if l.Interval > 0 {
		t := time.NewTicker(l.Interval)
		defer t.Stop()
		tick = t.C
	}
	glog.Infof("loop: %d tasks", len(l.tasks))
	for l.active > 0 {
		if err := l.Step(); err != nil {
			return err
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			runtime.Gosched()
		}
	}
	glog.Info("loop: all tasks exited")
	return nil
}
