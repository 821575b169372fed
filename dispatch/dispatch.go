package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

const DefaultTimeout = 30 * time.Second

var log = commonlog.GetLogger("devtext.dispatch")

// Dispatcher correlates requests with responses. It holds no per-task state,
// so any number of Dispatch calls may run concurrently.
type Dispatcher struct {
	timeout time.Duration
	spawner Spawner
	newID   func() string
}

type Option func(*Dispatcher)

// WithTimeout sets how long a task may run. Zero or negative keeps the
// default.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

func WithSpawner(s Spawner) Option {
	return func(disp *Dispatcher) {
		if s != nil {
			disp.spawner = s
		}
	}
}

func WithIDFunc(f func() string) Option {
	return func(disp *Dispatcher) {
		if f != nil {
			disp.newID = f
		}
	}
}

func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		timeout: DefaultTimeout,
		spawner: GoroutineSpawner{},
		newID:   newID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

// Dispatch runs one task of the given kind on a fresh worker.
//
// A response with Success false is returned with a nil error; the error is
// reserved for the task not producing a response at all: ErrTimeout, a
// *FaultError, a spawn failure, or ctx being cancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, payload string) (Response, error) {
	return d.Send(ctx, Request{Kind: kind, Data: payload})
}

// Send is Dispatch for a prepared request. An empty ID is filled in. When
// the error is non-nil the returned Response carries only that ID.
func (d *Dispatcher) Send(ctx context.Context, req Request) (Response, error) {
	if req.ID == "" {
		req.ID = d.newID()
	}

	worker, err := d.spawner.Spawn()
	if err != nil {
		return Response{ID: req.ID}, fmt.Errorf("task %s: spawn worker: %w", req.ID, err)
	}
	defer worker.Terminate()

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	log.Debugf("task %s (%s): dispatching %d bytes", req.ID, req.Kind, len(req.Data))
	start := time.Now()

	if err := worker.Post(req); err != nil {
		return Response{ID: req.ID}, &FaultError{ID: req.ID, Err: err}
	}

	for {
		select {
		case resp := <-worker.Responses():
			if resp.ID != req.ID {
				log.Warningf("task %s: discarding response for %q", req.ID, resp.ID)
				continue
			}
			log.Debugf("task %s: settled in %s (success=%t)", req.ID, time.Since(start), resp.Success)
			return resp, nil

		case err := <-worker.Faults():
			log.Errorf("task %s: worker fault: %s", req.ID, err)
			return Response{ID: req.ID}, &FaultError{ID: req.ID, Err: err}

		case <-timer.C:
			log.Warningf("task %s: timed out after %s", req.ID, d.timeout)
			return Response{ID: req.ID}, fmt.Errorf("task %s (%s): %w after %s", req.ID, req.Kind, ErrTimeout, d.timeout)

		case <-ctx.Done():
			return Response{ID: req.ID}, fmt.Errorf("task %s: %w", req.ID, ctx.Err())
		}
	}
}

// Do dispatches a task and decodes its result into out. A response with
// Success false becomes an *InputError.
func (d *Dispatcher) Do(ctx context.Context, kind Kind, payload string, out any) error {
	resp, err := d.Dispatch(ctx, kind, payload)
	if err != nil {
		return err
	}
	return resp.DecodeResult(out)
}
