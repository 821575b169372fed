package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ProcessSpawner runs each task in a child process. The child reads one
// JSON Request on stdin and writes one JSON Response on stdout; the devtext
// binary does this in its hidden "worker" command.
type ProcessSpawner struct {
	// Path is the executable. Empty means the running binary.
	Path string
	Args []string
	Env  []string
}

// WorkerProcess returns a spawner that re-executes the running binary as
// "devtext worker".
func WorkerProcess() ProcessSpawner {
	return ProcessSpawner{Args: []string{"worker"}}
}

func (s ProcessSpawner) Spawn() (Worker, error) {
	path := s.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate worker executable: %w", err)
		}
		path = exe
	}

	cmd := exec.Command(path, s.Args...)
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		return nil, fmt.Errorf("start worker: %w", err)
	}

	w := &processWorker{
		cmd:       cmd,
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		responses: make(chan Response, 1),
		faults:    make(chan error, 1),
		done:      make(chan struct{}),
	}
	go w.read()
	return w, nil
}

type processWorker struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr *bytes.Buffer

	responses chan Response
	faults    chan error
	done      chan struct{}

	mu       sync.Mutex
	posted   bool
	stopOnce sync.Once
}

func (w *processWorker) Post(req Request) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.posted {
		return fmt.Errorf("worker already has a task")
	}
	w.posted = true

	// A child that died early shows up as a broken pipe here. The read side
	// reports it as a fault with the child's stderr, so it is not an error
	// of Post.
	if err := json.NewEncoder(w.stdin).Encode(req); err != nil {
		log.Debugf("task %s: send request: %s", req.ID, err)
	}
	_ = w.stdin.Close()
	return nil
}

func (w *processWorker) read() {
	var resp Response
	decodeErr := json.NewDecoder(w.stdout).Decode(&resp)
	waitErr := w.cmd.Wait()

	if decodeErr == nil {
		select {
		case w.responses <- resp:
		case <-w.done:
		}
		return
	}

	err := ErrWorkerExited
	if msg := strings.TrimSpace(w.stderrText()); msg != "" {
		err = fmt.Errorf("%w: %s", ErrWorkerExited, msg)
	} else if waitErr != nil {
		err = fmt.Errorf("%w: %v", ErrWorkerExited, waitErr)
	} else if !errors.Is(decodeErr, io.EOF) {
		err = fmt.Errorf("%w: %v", ErrWorkerExited, decodeErr)
	}
	select {
	case w.faults <- err:
	case <-w.done:
	}
}

// stderrText is only safe to call after cmd.Wait has returned.
func (w *processWorker) stderrText() string {
	return w.stderr.String()
}

func (w *processWorker) Responses() <-chan Response { return w.responses }
func (w *processWorker) Faults() <-chan error       { return w.faults }

func (w *processWorker) Terminate() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.cmd.Process != nil {
			_ = w.cmd.Process.Kill()
		}
	})
}
