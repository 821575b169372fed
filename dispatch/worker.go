package dispatch

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Worker is one isolated executor. It accepts a single Request and reports
// either a Response or a fault. Terminate may be called more than once; only
// the first call has an effect.
type Worker interface {
	Post(req Request) error
	Responses() <-chan Response
	Faults() <-chan error
	Terminate()
}

// Spawner creates fresh workers. Dispatchers never reuse a worker.
type Spawner interface {
	Spawn() (Worker, error)
}

// HandlerFunc computes a response for a request inside a worker.
type HandlerFunc func(Request) Response

// GoroutineSpawner runs each task on its own goroutine. Requests and
// responses cross the boundary as JSON, so the handler never sees the
// caller's memory.
type GoroutineSpawner struct {
	Handler HandlerFunc
}

func (s GoroutineSpawner) Spawn() (Worker, error) {
	h := s.Handler
	if h == nil {
		h = Handle
	}
	return &goroutineWorker{
		handler:   h,
		responses: make(chan Response, 1),
		faults:    make(chan error, 1),
		done:      make(chan struct{}),
	}, nil
}

type goroutineWorker struct {
	handler   HandlerFunc
	responses chan Response
	faults    chan error
	done      chan struct{}

	postOnce sync.Once
	stopOnce sync.Once
}

func (w *goroutineWorker) Post(req Request) error {
	msg, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	posted := false
	w.postOnce.Do(func() {
		posted = true
		go w.run(msg)
	})
	if !posted {
		return fmt.Errorf("worker already has a task")
	}
	return nil
}

func (w *goroutineWorker) run(msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			w.fault(fmt.Errorf("panic: %v", r))
		}
	}()

	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		w.fault(fmt.Errorf("decode request: %w", err))
		return
	}

	resp := w.handler(req)

	out, err := json.Marshal(resp)
	if err != nil {
		w.fault(fmt.Errorf("encode response: %w", err))
		return
	}
	var copied Response
	if err := json.Unmarshal(out, &copied); err != nil {
		w.fault(fmt.Errorf("decode response: %w", err))
		return
	}

	select {
	case w.responses <- copied:
	case <-w.done:
	}
}

func (w *goroutineWorker) fault(err error) {
	select {
	case w.faults <- err:
	case <-w.done:
	}
}

func (w *goroutineWorker) Responses() <-chan Response { return w.responses }
func (w *goroutineWorker) Faults() <-chan error       { return w.faults }

// Terminate abandons the worker. A goroutine cannot be killed, so a handler
// that is still running finishes in the background and its result is
// dropped.
func (w *goroutineWorker) Terminate() {
	w.stopOnce.Do(func() { close(w.done) })
}
