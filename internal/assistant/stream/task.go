// Package stream runs completion streams as cancellable tasks.
package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/smallbiznis/tariffdesk/internal/assistant/completion"
)

// ErrAborted ends a task that was cancelled before the model finished.
var ErrAborted = errors.New("stream aborted")

const DefaultHeartbeat = 25 * time.Second

type EventKind int

const (
	EventContent EventKind = iota
	EventHeartbeat
	EventDone
	EventError
)

type Event struct {
	Kind    EventKind
	Content string
	Err     error
}

// Terminal reports whether the event ends the task.
func (e Event) Terminal() bool {
	return e.Kind == EventDone || e.Kind == EventError
}

type options struct {
	heartbeat time.Duration
	buffer    int
}

type Option func(*options)

// WithHeartbeat sets the keep-alive interval. Non-positive values keep the
// default.
func WithHeartbeat(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.heartbeat = d
		}
	}
}

// Task relays one completion stream. Every task ends with exactly one
// terminal event, delivered on Events when the consumer is still reading
// and always available from Wait.
type Task struct {
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	terminal Event
}

type recvResult struct {
	content string
	err     error
}

// Open starts the upstream stream synchronously so a failure to connect can
// still be reported as a plain error, then relays it in the background.
func Open(ctx context.Context, client completion.Client, req completion.Request, opts ...Option) (*Task, error) {
	o := options{heartbeat: DefaultHeartbeat, buffer: 16}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	upstream, err := client.Stream(ctx, req)
	if err != nil {
		cancel()
		return nil, err
	}

	t := &Task{
		events: make(chan Event, o.buffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.run(ctx, upstream, o.heartbeat)
	return t, nil
}

// Events is closed after the terminal event.
func (t *Task) Events() <-chan Event {
	return t.events
}

// Abort cancels the upstream request. It is safe to call more than once and
// after the task finished.
func (t *Task) Abort() {
	t.cancel()
}

// Done is closed once the task has ended.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task ends and returns its terminal event.
func (t *Task) Wait() Event {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminal
}

func (t *Task) run(ctx context.Context, upstream completion.Stream, heartbeat time.Duration) {
	defer close(t.done)
	defer close(t.events)
	defer t.cancel()
	defer upstream.Close()

	deltas := make(chan recvResult)
	go func() {
		for {
			content, err := upstream.Recv()
			select {
			case deltas <- recvResult{content: content, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.finish(ctx, Event{Kind: EventError, Err: ErrAborted})
			return
		case <-ticker.C:
			t.send(ctx, Event{Kind: EventHeartbeat})
		case r := <-deltas:
			switch {
			case errors.Is(r.err, io.EOF):
				t.finish(ctx, Event{Kind: EventDone})
				return
			case r.err != nil && ctx.Err() != nil:
				t.finish(ctx, Event{Kind: EventError, Err: ErrAborted})
				return
			case r.err != nil:
				t.finish(ctx, Event{Kind: EventError, Err: r.err})
				return
			case r.content != "":
				t.send(ctx, Event{Kind: EventContent, Content: r.content})
			}
		}
	}
}

func (t *Task) send(ctx context.Context, ev Event) {
	select {
	case t.events <- ev:
	case <-ctx.Done():
	}
}

// finish records the terminal event and hands it to a reading consumer.
// Once cancelled nobody is guaranteed to read, so delivery is best effort.
func (t *Task) finish(ctx context.Context, ev Event) {
	t.mu.Lock()
	t.terminal = ev
	t.mu.Unlock()

	if ctx.Err() != nil {
		select {
		case t.events <- ev:
		default:
		}
		return
	}
	select {
	case t.events <- ev:
	case <-ctx.Done():
	}
}
