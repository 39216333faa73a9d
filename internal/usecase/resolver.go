// Package usecase contains application business logic.
package usecase

import (
	"strings"

	"go.uber.org/zap"

	"github.com/riseplugins/launchpad/internal/alias"
	"github.com/riseplugins/launchpad/internal/domain"
)

// ResolverImpl implements domain.Resolver. It maps user tokens through the
// alias table and matches them against a fresh process snapshot per call.
type ResolverImpl struct {
	processManager domain.ProcessManager
	logger         *zap.Logger
}

// NewResolver creates a new name resolver.
func NewResolver(pm domain.ProcessManager, logger *zap.Logger) domain.Resolver {
	return &ResolverImpl{
		processManager: pm,
		logger:         logger,
	}
}

// Resolve returns the executable path of the first running process whose
// executable name (extension stripped) equals the token's canonical search
// name, case-insensitive. Processes without a resolvable path are skipped:
// a path we cannot capture is a path we cannot launch later.
func (r *ResolverImpl) Resolve(token string) (string, bool, error) {
	search := alias.Canonical(token)

	snapshot, err := r.processManager.Snapshot()
	if err != nil {
		return "", false, err
	}

	for _, p := range snapshot {
		if p.Path == "" {
			continue
		}
		if strings.EqualFold(stripExeSuffix(p.Name), search) {
			r.logger.Info("resolved app",
				zap.String("token", token),
				zap.String("search", search),
				zap.String("path", p.Path),
				zap.Int32("pid", p.PID))
			return p.Path, true, nil
		}
	}

	r.logger.Warn("no running process matched app token",
		zap.String("token", token),
		zap.String("search", search))
	return "", false, nil
}

// stripExeSuffix removes a trailing ".exe" (Windows process names carry it,
// search names do not). Other dots are part of the name, e.g. "ms-teams" or
// "com.docker.backend".
func stripExeSuffix(name string) string {
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		return name[:len(name)-4]
	}
	return name
}

// Ensure ResolverImpl implements domain.Resolver.
var _ domain.Resolver = (*ResolverImpl)(nil)
