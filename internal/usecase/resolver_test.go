package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/riseplugins/launchpad/internal/domain"
)

// mockProcessManager implements domain.ProcessManager for testing.
type mockProcessManager struct {
	snapshot    []domain.ProcessInfo
	snapshotErr error

	launchErrs     map[string]error // path -> error
	launchedPaths  []string
	terminateErrs  map[int32]error // pid -> error
	terminatedPIDs []int32
}

func (m *mockProcessManager) Snapshot() ([]domain.ProcessInfo, error) {
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	return m.snapshot, nil
}

func (m *mockProcessManager) Launch(path string) error {
	if err := m.launchErrs[path]; err != nil {
		return err
	}
	m.launchedPaths = append(m.launchedPaths, path)
	return nil
}

func (m *mockProcessManager) Terminate(pid int32) error {
	if err := m.terminateErrs[pid]; err != nil {
		return err
	}
	m.terminatedPIDs = append(m.terminatedPIDs, pid)
	return nil
}

func TestResolver_AliasTokenMatchesCanonicalProcess(t *testing.T) {
	pm := &mockProcessManager{snapshot: []domain.ProcessInfo{
		{PID: 10, Name: "chrome", Path: "/opt/chrome/chrome"},
		{PID: 11, Name: "code", Path: "/usr/share/code/code"},
	}}
	r := NewResolver(pm, zap.NewNop())

	path, ok, err := r.Resolve("vscode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/usr/share/code/code", path)
}

func TestResolver_MatchIsCaseInsensitiveAndStripsExeSuffix(t *testing.T) {
	pm := &mockProcessManager{snapshot: []domain.ProcessInfo{
		{PID: 20, Name: "Code.exe", Path: `C:\Program Files\VS Code\Code.exe`},
	}}
	r := NewResolver(pm, zap.NewNop())

	path, ok, err := r.Resolve("VSCode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `C:\Program Files\VS Code\Code.exe`, path)
}

func TestResolver_UnaliasedTokenMatchesOnlyLiteralName(t *testing.T) {
	pm := &mockProcessManager{snapshot: []domain.ProcessInfo{
		{PID: 30, Name: "steamwebhelper", Path: "/opt/steam/steamwebhelper"},
	}}
	r := NewResolver(pm, zap.NewNop())

	// "steam" is a substring of "steamwebhelper" but there is no fuzzy
	// matching: only a literal (case-insensitive) name equals a match.
	_, ok, err := r.Resolve("steam")
	require.NoError(t, err)
	assert.False(t, ok)

	pm.snapshot = append(pm.snapshot, domain.ProcessInfo{PID: 31, Name: "Steam", Path: "/opt/steam/steam"})
	path, ok, err := r.Resolve("steam")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/opt/steam/steam", path)
}

func TestResolver_SkipsProcessesWithoutResolvablePath(t *testing.T) {
	pm := &mockProcessManager{snapshot: []domain.ProcessInfo{
		{PID: 40, Name: "steam", Path: ""},
		{PID: 41, Name: "steam", Path: "/opt/steam/steam"},
	}}
	r := NewResolver(pm, zap.NewNop())

	path, ok, err := r.Resolve("steam")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/opt/steam/steam", path)
}

func TestResolver_NoMatchIsNotAnError(t *testing.T) {
	pm := &mockProcessManager{snapshot: []domain.ProcessInfo{
		{PID: 50, Name: "bash", Path: "/bin/bash"},
	}}
	r := NewResolver(pm, zap.NewNop())

	_, ok, err := r.Resolve("blender")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolver_SnapshotFailurePropagates(t *testing.T) {
	pm := &mockProcessManager{snapshotErr: errors.New("proc table unavailable")}
	r := NewResolver(pm, zap.NewNop())

	_, _, err := r.Resolve("steam")
	assert.Error(t, err)
}
