package launcher

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// MaxHistory is the number of launches kept for inspection
const MaxHistory = 50

// ErrSpawnFailed is returned when a process could not be started
var ErrSpawnFailed = errors.New("external process failed to start")

// Launcher starts external programs without waiting for them
type Launcher struct {
	mu       sync.Mutex
	nextID   int
	launches []*Launch
	command  func(name string, args ...string) *exec.Cmd
	exists   func(pid int32) (bool, error)
}

// New creates a launcher backed by os/exec
func New() *Launcher {
	return &Launcher{
		command: exec.Command,
		exists:  process.PidExists,
	}
}

// Start spawns name with args in dir and returns immediately.
// The exit status is logged when the process ends and never reported to the caller.
func (l *Launcher) Start(purpose, name string, args []string, dir string) (*Launch, error) {
	cmd := l.command(name, args...)
	cmd.Dir = dir

	l.mu.Lock()
	l.nextID++
	rec := &Launch{
		ID:        l.nextID,
		Purpose:   purpose,
		Command:   name,
		Args:      append([]string(nil), args...),
		Dir:       dir,
		StartedAt: time.Now(),
	}
	l.remember(rec)
	l.mu.Unlock()

	if err := cmd.Start(); err != nil {
		l.mu.Lock()
		rec.Exited = true
		rec.ExitCode = -1
		rec.Error = err.Error()
		l.mu.Unlock()

		log.Printf("[launcher] %s: failed to start %s: %v", purpose, name, err)
		return l.snapshot(rec), fmt.Errorf("%w: %s: %v", ErrSpawnFailed, name, err)
	}

	l.mu.Lock()
	rec.PID = int32(cmd.Process.Pid)
	rec.Running = true
	l.mu.Unlock()

	log.Printf("[launcher] %s: started %s (pid %d)", purpose, name, cmd.Process.Pid)

	go l.wait(cmd, rec)

	return l.snapshot(rec), nil
}

// List returns recent launches, newest first, with liveness refreshed from the process table
func (l *Launcher) List() *LaunchList {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := &LaunchList{Launches: make([]Launch, 0, len(l.launches))}
	for i := len(l.launches) - 1; i >= 0; i-- {
		rec := *l.launches[i]
		if rec.Running {
			if alive, err := l.exists(rec.PID); err == nil {
				rec.Running = alive
			}
		}
		list.Launches = append(list.Launches, rec)
	}
	list.Total = len(list.Launches)

	return list
}

func (l *Launcher) wait(cmd *exec.Cmd, rec *Launch) {
	err := cmd.Wait()

	l.mu.Lock()
	rec.Running = false
	rec.Exited = true
	rec.ExitCode = cmd.ProcessState.ExitCode()
	if err != nil {
		rec.Error = err.Error()
	}
	purpose, pid, code := rec.Purpose, rec.PID, rec.ExitCode
	l.mu.Unlock()

	if code != 0 {
		log.Printf("[launcher] %s: pid %d exited with code %d", purpose, pid, code)
	}
}

// remember must be called with l.mu held
func (l *Launcher) remember(rec *Launch) {
	l.launches = append(l.launches, rec)
	if len(l.launches) > MaxHistory {
		l.launches = l.launches[len(l.launches)-MaxHistory:]
	}
}

func (l *Launcher) snapshot(rec *Launch) *Launch {
	l.mu.Lock()
	defer l.mu.Unlock()

	cp := *rec
	return &cp
}
