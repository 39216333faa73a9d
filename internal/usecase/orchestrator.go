package usecase

import (
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/riseplugins/launchpad/internal/domain"
)

// ModeServiceImpl implements domain.ModeService by composing the mode store,
// the process manager, and the name resolver.
//
// Create/add are all-or-nothing: a stored path is only trustworthy if the
// app was observed running at capture time, so an unresolvable token fails
// the whole mutation. Launch/close are best-effort-all: every app is
// attempted and the failures are reported together, in stored order.
type ModeServiceImpl struct {
	store          domain.ModeStore
	processManager domain.ProcessManager
	resolver       domain.Resolver
	logger         *zap.Logger
}

// NewModeService creates a new mode lifecycle orchestrator.
func NewModeService(
	store domain.ModeStore,
	pm domain.ProcessManager,
	resolver domain.Resolver,
	logger *zap.Logger,
) domain.ModeService {
	return &ModeServiceImpl{
		store:          store,
		processManager: pm,
		resolver:       resolver,
		logger:         logger,
	}
}

// CreateMode resolves every token against running processes and persists a
// new mode. Nothing is stored unless all tokens resolve.
func (s *ModeServiceImpl) CreateMode(name string, tokens []string) error {
	exists, err := s.store.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrModeExists
	}

	entries, err := s.resolveAll(tokens, nil)
	if err != nil {
		return err
	}

	if err := s.store.Put(name, entries); err != nil {
		return err
	}

	s.logger.Info("mode created",
		zap.String("mode", name),
		zap.Int("apps", len(entries)))
	return nil
}

// DeleteMode removes a mode and all its entries.
func (s *ModeServiceImpl) DeleteMode(name string) error {
	mode, err := s.store.Get(name)
	if err != nil {
		return err
	}
	if mode == nil {
		return domain.ErrModeNotFound
	}

	if err := s.store.Delete(mode.Name); err != nil {
		return err
	}

	s.logger.Info("mode deleted", zap.String("mode", mode.Name))
	return nil
}

// ListModes returns all stored mode names with their original casing,
// sorted for stable output.
func (s *ModeServiceImpl) ListModes() ([]string, error) {
	modes, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListAppsInMode returns the stored display names of a mode's apps.
func (s *ModeServiceImpl) ListAppsInMode(name string) ([]string, error) {
	mode, err := s.store.Get(name)
	if err != nil {
		return nil, err
	}
	if mode == nil {
		return nil, domain.ErrModeNotFound
	}

	names := make([]string, 0, len(mode.Apps))
	for _, app := range mode.Apps {
		names = append(names, app.Name)
	}
	return names, nil
}

// AddAppsToMode resolves tokens and appends them to an existing mode.
// Tokens already present in the mode (case-insensitive) are skipped without
// error; the remaining tokens must all resolve or nothing is added.
func (s *ModeServiceImpl) AddAppsToMode(name string, tokens []string) ([]string, error) {
	mode, err := s.store.Get(name)
	if err != nil {
		return nil, err
	}
	if mode == nil {
		return nil, domain.ErrModeNotFound
	}

	present := make(map[string]bool, len(mode.Apps))
	for _, app := range mode.Apps {
		present[strings.ToLower(app.Name)] = true
	}

	entries, err := s.resolveAll(tokens, present)
	if err != nil {
		return nil, err
	}

	added := make([]string, 0, len(entries))
	for _, e := range entries {
		added = append(added, e.Name)
	}

	if len(entries) == 0 {
		// Everything was already present; nothing to persist.
		return added, nil
	}

	if err := s.store.Put(mode.Name, append(mode.Apps, entries...)); err != nil {
		return nil, err
	}

	s.logger.Info("apps added to mode",
		zap.String("mode", mode.Name),
		zap.Strings("apps", added))
	return added, nil
}

// RemoveAppsFromMode drops entries whose name matches a token
// case-insensitively. Tokens not present in the mode are ignored.
func (s *ModeServiceImpl) RemoveAppsFromMode(name string, tokens []string) error {
	mode, err := s.store.Get(name)
	if err != nil {
		return err
	}
	if mode == nil {
		return domain.ErrModeNotFound
	}

	drop := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		drop[strings.ToLower(strings.TrimSpace(token))] = true
	}

	kept := make([]domain.AppEntry, 0, len(mode.Apps))
	for _, app := range mode.Apps {
		if drop[strings.ToLower(app.Name)] {
			continue
		}
		kept = append(kept, app)
	}

	if len(kept) == len(mode.Apps) {
		return nil // Nothing matched; the mode is unchanged.
	}

	if err := s.store.Put(mode.Name, kept); err != nil {
		return err
	}

	s.logger.Info("apps removed from mode",
		zap.String("mode", mode.Name),
		zap.Int("removed", len(mode.Apps)-len(kept)))
	return nil
}

// LaunchMode starts every app in the mode from its stored path. One failure
// does not block the rest; failures are reported together in stored order.
func (s *ModeServiceImpl) LaunchMode(name string) error {
	mode, err := s.store.Get(name)
	if err != nil {
		return err
	}
	if mode == nil {
		return domain.ErrModeNotFound
	}

	var failed []string
	for _, app := range mode.Apps {
		if err := s.processManager.Launch(app.Path); err != nil {
			s.logger.Error("failed to launch app",
				zap.String("mode", mode.Name),
				zap.String("app", app.Name),
				zap.String("path", app.Path),
				zap.Error(err))
			failed = append(failed, app.Name)
			continue
		}
		s.logger.Info("launched app",
			zap.String("mode", mode.Name),
			zap.String("app", app.Name))
	}

	if len(failed) > 0 {
		return &domain.ExecutionError{Action: "launch", Apps: failed}
	}
	return nil
}

// CloseMode terminates running processes matching each app's stored path,
// using a snapshot taken at close time. Apps with no matching process count
// as failures, but every app is attempted first.
func (s *ModeServiceImpl) CloseMode(name string) error {
	mode, err := s.store.Get(name)
	if err != nil {
		return err
	}
	if mode == nil {
		return domain.ErrModeNotFound
	}

	snapshot, err := s.processManager.Snapshot()
	if err != nil {
		return err
	}

	var failed []string
	for _, app := range mode.Apps {
		closed := false
		for _, p := range snapshot {
			if p.Path == "" || !samePath(p.Path, app.Path) {
				continue
			}
			if err := s.processManager.Terminate(p.PID); err != nil {
				s.logger.Warn("failed to terminate process",
					zap.String("app", app.Name),
					zap.Int32("pid", p.PID),
					zap.Error(err))
				continue
			}
			closed = true
		}

		if !closed {
			failed = append(failed, app.Name)
			continue
		}
		s.logger.Info("closed app",
			zap.String("mode", mode.Name),
			zap.String("app", app.Name))
	}

	if len(failed) > 0 {
		return &domain.ExecutionError{Action: "close", Apps: failed}
	}
	return nil
}

// resolveAll resolves tokens to running-process entries. Tokens whose
// lowercase name is in skip, or repeats within the batch, are dropped
// silently (already-present semantics). Any other token that fails to
// resolve fails the whole batch with a ResolutionError.
func (s *ModeServiceImpl) resolveAll(tokens []string, skip map[string]bool) ([]domain.AppEntry, error) {
	entries := make([]domain.AppEntry, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	var missing []string

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		lower := strings.ToLower(token)
		if seen[lower] || (skip != nil && skip[lower]) {
			continue
		}
		seen[lower] = true

		path, ok, err := s.resolver.Resolve(token)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, token)
			continue
		}
		entries = append(entries, domain.AppEntry{Name: token, Path: path})
	}

	if len(missing) > 0 {
		return nil, &domain.ResolutionError{Apps: missing}
	}
	return entries, nil
}

// samePath compares executable paths after cleaning, case-insensitively
// (stored paths may come from a case-insensitive filesystem).
func samePath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

// Ensure ModeServiceImpl implements domain.ModeService.
var _ domain.ModeService = (*ModeServiceImpl)(nil)
