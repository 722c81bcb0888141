// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/janderssonse/unipkg/internal/domain"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
)

// Session holds the interactive state shared by the user interfaces: the
// active backend, the packages on display and the staged operation queue.
//
// Search, ListInstalled, Info and Apply run backend commands and exclude each
// other; a call made while another is in flight fails with domain.ErrBusy.
// Queue edits are refused while a command runs: they check the busy flag
// under mu, and Apply snapshots the queue under mu after raising it. All
// accessors are safe for concurrent use.
type Session struct {
	registry *Registry
	logger   *zap.Logger
	elevated bool
	timeout  time.Duration

	busy atomic.Bool

	mu          sync.Mutex
	backend     domain.Backend
	displayed   []*domain.Package
	staged      []domain.Operation
	credentials string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithElevated records whether the process already has administrator rights.
func WithElevated(elevated bool) SessionOption {
	return func(s *Session) {
		s.elevated = elevated
	}
}

// WithTimeout bounds every single backend command: each search, listing,
// detail refresh and applied operation gets its own deadline. Zero means no
// limit.
func WithTimeout(timeout time.Duration) SessionOption {
	return func(s *Session) {
		s.timeout = timeout
	}
}

// NewSession creates a session over registry. The registry's current
// selection, if any, becomes the active backend.
func NewSession(registry *Registry, opts ...SessionOption) *Session {
	s := &Session{
		registry: registry,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.backend = registry.Active()

	return s
}

// Registry returns the backend registry.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Elevated reports whether the process has administrator rights.
func (s *Session) Elevated() bool {
	return s.elevated
}

// Busy reports whether a backend command is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Backend returns the active backend, or nil.
func (s *Session) Backend() domain.Backend {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend
}

// SelectBackend switches to the named backend. The listing and the queue
// belong to the previous backend and are discarded.
func (s *Session) SelectBackend(name string) error {
	if s.busy.Load() {
		return domain.ErrBusy
	}

	backend, err := s.registry.Select(name)
	if err != nil {
		return err
	}

	s.switchTo(backend)

	return nil
}

// NextBackend cycles to the following backend in registry order.
func (s *Session) NextBackend() (domain.Backend, error) {
	if s.busy.Load() {
		return nil, domain.ErrBusy
	}

	backend := s.registry.Next()
	if backend == nil {
		return nil, domain.ErrNoPackageManager
	}

	s.switchTo(backend)

	return backend, nil
}

func (s *Session) switchTo(backend domain.Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.staged) > 0 {
		s.logger.Info("discarding staged operations", zap.Int("count", len(s.staged)))
	}

	s.backend = backend
	s.displayed = nil
	s.staged = nil

	s.logger.Info("selected package manager", zap.String("backend", backend.Name()))
}

// Displayed returns a snapshot of the packages on display.
func (s *Session) Displayed() []*domain.Package {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clonePackages(s.displayed)
}

// Staged returns the staged operations in insertion order.
func (s *Session) Staged() []domain.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.staged)
}

// ToggleMark flips the mark of a displayed package. A marked package is
// unmarked and leaves the queue; an unmarked one is staged for install when
// absent and for uninstall when present. It returns the resulting mark.
func (s *Session) ToggleMark(name string) (domain.OperationKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy.Load() {
		return domain.OpNone, domain.ErrBusy
	}

	pkg := domain.FindPackage(s.displayed, name)
	if pkg == nil {
		return domain.OpNone, fmt.Errorf("%w: %s", domain.ErrPackageNotDisplayed, name)
	}

	if pkg.HasMark() {
		s.unstage(pkg)

		return domain.OpNone, nil
	}

	kind := domain.OpInstall
	if pkg.Installed {
		kind = domain.OpUninstall
	}

	s.stage(pkg, kind)

	return kind, nil
}

// MarkUpdate toggles an update mark on an installed package. Any other mark
// on the package is replaced.
func (s *Session) MarkUpdate(name string) (domain.OperationKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy.Load() {
		return domain.OpNone, domain.ErrBusy
	}

	pkg := domain.FindPackage(s.displayed, name)
	if pkg == nil {
		return domain.OpNone, fmt.Errorf("%w: %s", domain.ErrPackageNotDisplayed, name)
	}

	if !domain.OpUpdate.Allows(pkg.Installed) {
		return domain.OpNone, fmt.Errorf("%w: %s is not installed", domain.ErrInvalidMark, name)
	}

	if pkg.Marked == domain.OpUpdate {
		s.unstage(pkg)

		return domain.OpNone, nil
	}

	s.unstage(pkg)
	s.stage(pkg, domain.OpUpdate)

	return domain.OpUpdate, nil
}

// stage marks pkg and appends the operation. Callers hold mu.
func (s *Session) stage(pkg *domain.Package, kind domain.OperationKind) {
	pkg.Marked = kind
	s.staged = append(s.staged, domain.Operation{Name: pkg.Name, Kind: kind})

	s.logger.Debug("staged operation", zap.String("package", pkg.Name), zap.Stringer("kind", kind))
}

// unstage clears the mark of pkg and its queue entry. Callers hold mu.
func (s *Session) unstage(pkg *domain.Package) {
	pkg.Marked = domain.OpNone
	s.staged = slices.DeleteFunc(s.staged, func(op domain.Operation) bool {
		return op.Name == pkg.Name
	})
}

// Prepare lists the installed packages and stages kind for every name.
// Names missing from the listing count as not installed. All names are
// checked before anything is staged.
func (s *Session) Prepare(ctx context.Context, kind domain.OperationKind, names ...string) ([]domain.Operation, error) {
	if _, err := s.ListInstalled(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*domain.Package

	for _, name := range names {
		if domain.FindPackage(pending, name) != nil {
			continue
		}

		pkg := domain.FindPackage(s.displayed, name)
		if pkg == nil {
			pkg = domain.NewPackage(name, "", "", false)
		}

		if !kind.Allows(pkg.Installed) {
			state := "not installed"
			if pkg.Installed {
				state = "already installed"
			}

			return nil, fmt.Errorf("%w: cannot %s %s, it is %s",
				domain.ErrInvalidMark, strings.ToLower(kind.String()), name, state)
		}

		pending = append(pending, pkg)
	}

	for _, pkg := range pending {
		if domain.FindPackage(s.displayed, pkg.Name) == nil {
			s.displayed = append(s.displayed, pkg)
		}

		s.unstage(pkg)
		s.stage(pkg, kind)
	}

	return slices.Clone(s.staged), nil
}

// Search queries the active backend and displays the matches with the queue
// merged in.
func (s *Session) Search(ctx context.Context, query string) (*domain.Outcome, error) {
	return s.fetch(ctx, "search", query, func(ctx context.Context, backend domain.Backend) ([]*domain.Package, domain.Result) {
		return backend.Search(ctx, query)
	})
}

// ListInstalled displays the installed packages of the active backend with
// the queue merged in.
func (s *Session) ListInstalled(ctx context.Context) (*domain.Outcome, error) {
	return s.fetch(ctx, "list", "", func(ctx context.Context, backend domain.Backend) ([]*domain.Package, domain.Result) {
		return backend.ListInstalled(ctx)
	})
}

type fetchFunc func(context.Context, domain.Backend) ([]*domain.Package, domain.Result)

func (s *Session) fetch(ctx context.Context, action, query string, run fetchFunc) (*domain.Outcome, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	backend := s.Backend()
	if backend == nil {
		return nil, domain.ErrNoBackend
	}

	logger := s.logger.With(zap.String("action", action), zap.String("backend", backend.Name()))
	logger.Info("fetching packages", zap.String("query", query))

	runCtx, cancel := s.bounded(ctx)
	pkgs, result := run(runCtx, backend)
	cancel()
	if !result.OK() {
		logger.Warn("fetch failed", zap.Int("status", result.Status))

		return nil, &domain.ExecutionError{
			Action:  action,
			Backend: backend.Name(),
			Status:  result.Status,
			Output:  result.Output,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := &domain.Outcome{Action: action, Backend: backend.Name(), Query: query}

	outcome.Dropped = domain.StaleOperations(pkgs, s.staged)
	for _, op := range outcome.Dropped {
		s.staged = slices.DeleteFunc(s.staged, func(o domain.Operation) bool { return o == op })
		logger.Info("dropped stale operation", zap.Stringer("operation", op))
	}

	s.displayed = domain.Merge(pkgs, s.staged)
	outcome.Packages = clonePackages(s.displayed)
	outcome.Empty = len(pkgs) == 0

	logger.Info("fetched packages", zap.Int("count", len(pkgs)))

	return outcome, nil
}

// Apply runs the staged operations in order through the active backend.
// Each success updates the package state and leaves the queue; the first
// failure stops the run with a *domain.OperationError and leaves it and every
// later operation staged.
func (s *Session) Apply(ctx context.Context) (*domain.ApplyResult, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	backend := s.backend
	queue := slices.Clone(s.staged)
	credentials := s.credentials
	s.mu.Unlock()

	if len(queue) == 0 {
		return nil, domain.ErrNothingSelected
	}

	if backend == nil {
		return nil, domain.ErrNoBackend
	}

	start := time.Now()
	outcome := &domain.ApplyResult{Backend: backend.Name()}
	logger := s.logger.With(zap.String("backend", backend.Name()))

	for i, op := range queue {
		pkg := s.target(op)

		logger.Info("applying operation", zap.Stringer("operation", op))

		opCtx, cancel := s.bounded(ctx)
		result, err := domain.Perform(opCtx, backend, op.Kind, pkg, credentials)
		cancel()
		if err != nil {
			outcome.Remaining = queue[i:]
			outcome.Duration = time.Since(start)

			return outcome, fmt.Errorf("%s: %w", op, err)
		}

		if !result.OK() {
			logger.Warn("operation failed", zap.Stringer("operation", op), zap.Int("status", result.Status))

			outcome.Remaining = queue[i:]
			outcome.Duration = time.Since(start)

			return outcome, &domain.OperationError{
				Operation: op,
				Backend:   backend.Name(),
				Status:    result.Status,
				Output:    result.Output,
			}
		}

		s.complete(op)
		outcome.Applied = append(outcome.Applied, op)
	}

	outcome.Duration = time.Since(start)
	logger.Info("applied operations", zap.Int("count", outcome.Completed()), zap.Duration("duration", outcome.Duration))

	return outcome, nil
}

// target resolves an operation against the displayed packages. A target that
// is no longer displayed is rebuilt from the operation itself.
func (s *Session) target(op domain.Operation) *domain.Package {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pkg := domain.FindPackage(s.displayed, op.Name); pkg != nil {
		return clonePackage(pkg)
	}

	return domain.NewPackage(op.Name, "", "", op.Kind != domain.OpInstall)
}

func (s *Session) complete(op domain.Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pkg := domain.FindPackage(s.displayed, op.Name); pkg != nil {
		pkg.Installed = op.Kind.Apply(pkg.Installed)
		pkg.Marked = domain.OpNone
	}

	if i := slices.Index(s.staged, op); i >= 0 {
		s.staged = slices.Delete(s.staged, i, i+1)
	}
}

// Info refreshes a displayed package from the backend and returns its detail
// as markdown.
func (s *Session) Info(ctx context.Context, name string) (string, error) {
	release, err := s.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	s.mu.Lock()
	backend := s.backend
	pkg := clonePackage(domain.FindPackage(s.displayed, name))
	s.mu.Unlock()

	if backend == nil {
		return "", domain.ErrNoBackend
	}

	if pkg == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrPackageNotDisplayed, name)
	}

	detailCtx, cancel := s.bounded(ctx)
	detail, result := backend.Detail(detailCtx, pkg)
	cancel()
	if !result.OK() {
		return detail, &domain.ExecutionError{
			Action:  "info",
			Backend: backend.Name(),
			Status:  result.Status,
			Output:  result.Output,
		}
	}

	s.mu.Lock()
	if shown := domain.FindPackage(s.displayed, name); shown != nil {
		shown.Version = pkg.Version
		shown.Description = pkg.Description
	}
	s.mu.Unlock()

	return detail, nil
}

// Filter fuzzy-matches pattern against the displayed package names, best
// match first. An empty pattern returns everything on display.
func (s *Session) Filter(pattern string) []*domain.Package {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pattern == "" {
		return clonePackages(s.displayed)
	}

	names := make([]string, len(s.displayed))
	for i, pkg := range s.displayed {
		names[i] = pkg.Name
	}

	matches := fuzzy.Find(pattern, names)
	filtered := make([]*domain.Package, 0, len(matches))

	for _, match := range matches {
		filtered = append(filtered, clonePackage(s.displayed[match.Index]))
	}

	return filtered
}

// SetCredentials stores the password used for elevated operations.
func (s *Session) SetCredentials(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials = secret
}

// NeedsCredentials reports whether applying the queue requires a password
// that has not been given yet.
func (s *Session) NeedsCredentials() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.staged) > 0 &&
		s.backend != nil && s.backend.RequiresAdmin() &&
		!s.elevated &&
		s.credentials == ""
}

// bounded derives the context for one backend command.
func (s *Session) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

// acquire takes the busy flag or fails with domain.ErrBusy.
func (s *Session) acquire() (func(), error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrBusy
	}

	return func() { s.busy.Store(false) }, nil
}

func clonePackage(pkg *domain.Package) *domain.Package {
	if pkg == nil {
		return nil
	}

	c := *pkg

	return &c
}

func clonePackages(pkgs []*domain.Package) []*domain.Package {
	if pkgs == nil {
		return nil
	}

	out := make([]*domain.Package, len(pkgs))
	for i, pkg := range pkgs {
		out[i] = clonePackage(pkg)
	}

	return out
}
