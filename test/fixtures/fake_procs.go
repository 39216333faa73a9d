// Package fixtures provides test doubles shared by the integration suite.
package fixtures

import (
	"fmt"
	"sync"

	"github.com/riseplugins/launchpad/internal/domain"
)

// FakeProcessManager implements domain.ProcessManager over a settable
// process table. Launches are recorded; terminations remove the process
// from the table, so later snapshots see it gone.
type FakeProcessManager struct {
	mu         sync.Mutex
	procs      []domain.ProcessInfo
	launchErrs map[string]error

	Launched   []string
	Terminated []int32
}

// NewFakeProcessManager creates a fake with an initial process table.
func NewFakeProcessManager(procs ...domain.ProcessInfo) *FakeProcessManager {
	return &FakeProcessManager{
		procs:      procs,
		launchErrs: make(map[string]error),
	}
}

// SetProcesses replaces the process table.
func (f *FakeProcessManager) SetProcesses(procs ...domain.ProcessInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = procs
}

// FailLaunch makes Launch return an error for the given path.
func (f *FakeProcessManager) FailLaunch(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launchErrs[path] = err
}

func (f *FakeProcessManager) Snapshot() ([]domain.ProcessInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ProcessInfo, len(f.procs))
	copy(out, f.procs)
	return out, nil
}

func (f *FakeProcessManager) Launch(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.launchErrs[path]; err != nil {
		return err
	}
	f.Launched = append(f.Launched, path)
	return nil
}

func (f *FakeProcessManager) Terminate(pid int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.procs {
		if p.PID == pid {
			f.procs = append(f.procs[:i], f.procs[i+1:]...)
			f.Terminated = append(f.Terminated, pid)
			return nil
		}
	}
	return fmt.Errorf("no such process: %d", pid)
}

// Ensure FakeProcessManager implements domain.ProcessManager.
var _ domain.ProcessManager = (*FakeProcessManager)(nil)
