package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/config"
	"bansos-dispatch/internal/metrics"
	"bansos-dispatch/internal/model"
)

// SettingsSource is the remote store holding the forwarding settings
type SettingsSource interface {
	GetForwardingSettings(ctx context.Context) (model.ForwardingSettings, error)
	PatchForwardingSettings(ctx context.Context, patch model.SettingsPatch) error
}

// DefaultSettings is used when the remote settings cannot be loaded and no
// earlier copy is cached. Email stays on so forwarding remains operable.
func DefaultSettings() model.ForwardingSettings {
	return model.ForwardingSettings{
		EmailForwarding:    true,
		WhatsAppForwarding: false,
		Mode:               model.ModeAuto,
	}
}

// DepartmentLister lists the department directory independently of the settings
type DepartmentLister interface {
	ListDepartments(ctx context.Context) ([]model.Department, error)
}

// SettingsStore caches the forwarding settings according to a refresh policy
type SettingsStore struct {
	source  SettingsSource
	policy  string
	maxAge  time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	lister  DepartmentLister

	mu        sync.RWMutex
	current   model.ForwardingSettings
	fetchedAt time.Time
	loaded    bool
	attempted bool
	degraded  bool
	stale     bool
}

// SettingsOption configures a SettingsStore
type SettingsOption func(*SettingsStore)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SettingsOption {
	return func(s *SettingsStore) { s.now = now }
}

// WithSettingsMetrics counts refresh failures
func WithSettingsMetrics(m *metrics.Metrics) SettingsOption {
	return func(s *SettingsStore) { s.metrics = m }
}

// WithDirectoryFallback fills the directory of the default settings from
// lister when the settings were never loaded
func WithDirectoryFallback(lister DepartmentLister) SettingsOption {
	return func(s *SettingsStore) { s.lister = lister }
}

// NewSettingsStore creates a store. Nothing is fetched until the first Get
// or Refresh.
func NewSettingsStore(source SettingsSource, cfg config.SettingsConfig, opts ...SettingsOption) *SettingsStore {
	policy := cfg.Refresh
	if policy == "" {
		policy = config.RefreshAlways
	}
	s := &SettingsStore{
		source:  source,
		policy:  policy,
		maxAge:  cfg.MaxAge,
		now:     time.Now,
		current: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reloads the settings from the source. On failure the last loaded
// copy (or DefaultSettings) is kept and the store reports degraded; the
// error is returned for callers that want to surface it.
func (s *SettingsStore) Refresh(ctx context.Context) (model.ForwardingSettings, error) {
	fetched, err := s.source.GetForwardingSettings(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempted = true
	if fetched.Mode == "" {
		fetched.Mode = model.ModeAuto
	}
	s.current = fetched
	s.fetchedAt = s.now()
	s.loaded = true
	s.degraded = false
	s.stale = false
	return s.current, nil
}

// fail records a failed refresh. Without a last good copy the defaults are
// used, with the directory listed separately when a lister is configured.
func (s *SettingsStore) fail(ctx context.Context, err error) (model.ForwardingSettings, error) {
	var (
		departments []model.Department
		listErr     error
		listed      bool
	)
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded && s.lister != nil {
		departments, listErr = s.lister.ListDepartments(ctx)
		listed = listErr == nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempted = true
	s.degraded = true
	if s.metrics != nil {
		s.metrics.SettingsRefreshFailures.Inc()
	}

	switch {
	case s.loaded:
		logrus.Warnf("Failed to refresh forwarding settings, keeping cached copy: %v", err)
	case listed:
		s.current.Departments = departments
		logrus.Warnf("Failed to load forwarding settings, using defaults with %d listed departments: %v", len(departments), err)
	case listErr != nil:
		logrus.Warnf("Failed to load forwarding settings and departments, using defaults: %v; %v", err, listErr)
	default:
		logrus.Warnf("Failed to load forwarding settings, using defaults: %v", err)
	}
	return s.current, fmt.Errorf("failed to load forwarding settings: %w", err)
}

// Get returns the settings, refreshing first when the policy asks for it.
// It never fails; a refresh failure degrades to the cached or default copy.
func (s *SettingsStore) Get(ctx context.Context) model.ForwardingSettings {
	if s.needsRefresh() {
		settings, _ := s.Refresh(ctx)
		return settings
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SettingsStore) needsRefresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.stale:
		return true
	case !s.loaded:
		// manual stores load once on first use and then wait for Refresh
		return s.policy != config.RefreshManual || !s.attempted
	}
	switch s.policy {
	case config.RefreshAlways:
		return true
	case config.RefreshMaxAge:
		return s.now().Sub(s.fetchedAt) >= s.maxAge
	}
	return false
}

// Patch writes a partial update to the source and applies it locally
func (s *SettingsStore) Patch(ctx context.Context, patch model.SettingsPatch) (model.ForwardingSettings, error) {
	if patch.Mode != nil && *patch.Mode != model.ModeAuto && *patch.Mode != model.ModeManual {
		return model.ForwardingSettings{}, fmt.Errorf("unknown forwarding mode %q", *patch.Mode)
	}
	if err := s.source.PatchForwardingSettings(ctx, patch); err != nil {
		return model.ForwardingSettings{}, fmt.Errorf("failed to update forwarding settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = patch.Apply(s.current)
	return s.current, nil
}

// Invalidate marks the cached copy stale so the next Get refetches
func (s *SettingsStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

// Degraded reports whether the last refresh failed
func (s *SettingsStore) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// FetchedAt returns when the settings were last loaded
func (s *SettingsStore) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
