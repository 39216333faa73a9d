// Package infra implements infrastructure concerns (process, mode store, config).
package infra

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/riseplugins/launchpad/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// Snapshot enumerates all accessible running processes with their executable
// name and path. Processes that exit mid-enumeration or deny access are
// omitted rather than failing the whole snapshot.
func (pm *ProcessManagerImpl) Snapshot() ([]domain.ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	infos := make([]domain.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited or denied access
		}

		path, err := p.Exe()
		if err != nil {
			path = "" // Path unresolvable; keep the name for matching
		}

		infos = append(infos, domain.ProcessInfo{
			PID:  p.Pid,
			Name: name,
			Path: path,
		})
	}

	return infos, nil
}

// Launch starts the executable at path as a detached process.
// The child runs independently of the plugin (no inherited stdio, own session).
func (pm *ProcessManagerImpl) Launch(path string) error {
	cmd := exec.Command(path)

	// Detach from the plugin process
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}

	// Reap the child when it exits so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()

	return nil
}

// Terminate stops a process by PID (SIGTERM, letting the app shut down cleanly).
func (pm *ProcessManagerImpl) Terminate(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.Terminate()
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
