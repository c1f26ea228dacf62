package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bansos-dispatch/internal/config"
	"bansos-dispatch/internal/metrics"
	"bansos-dispatch/internal/model"
)

func remoteSettings() model.ForwardingSettings {
	return model.ForwardingSettings{
		EmailForwarding: true,
		Mode:            model.ModeAuto,
		AdminEmail:      "admin@dinsos.go.id",
		Departments:     []model.Department{dinkes()},
	}
}

func TestSettingsAlwaysRefreshes(t *testing.T) {
	source := &fakeSettingsSource{settings: remoteSettings()}
	store := NewSettingsStore(source, config.SettingsConfig{Refresh: config.RefreshAlways})

	store.Get(context.Background())
	source.settings.WhatsAppForwarding = true
	got := store.Get(context.Background())

	assert.Equal(t, 2, source.calls)
	assert.True(t, got.WhatsAppForwarding)
	assert.False(t, store.Degraded())
}

func TestSettingsMaxAge(t *testing.T) {
	now := fixedNow
	source := &fakeSettingsSource{settings: remoteSettings()}
	store := NewSettingsStore(source,
		config.SettingsConfig{Refresh: config.RefreshMaxAge, MaxAge: time.Minute},
		WithClock(func() time.Time { return now }),
	)

	store.Get(context.Background())
	store.Get(context.Background())
	assert.Equal(t, 1, source.calls)

	now = now.Add(time.Minute)
	store.Get(context.Background())
	assert.Equal(t, 2, source.calls)
}

func TestSettingsManualLoadsOnceThenWaitsForRefresh(t *testing.T) {
	source := &fakeSettingsSource{settings: remoteSettings()}
	store := NewSettingsStore(source, config.SettingsConfig{Refresh: config.RefreshManual})

	store.Get(context.Background())
	store.Get(context.Background())
	assert.Equal(t, 1, source.calls)

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)

	store.Invalidate()
	store.Get(context.Background())
	assert.Equal(t, 3, source.calls)
}

func TestSettingsFallBackToDefaults(t *testing.T) {
	m := metrics.NewMetricsWith(prometheus.NewRegistry())
	source := &fakeSettingsSource{err: errRemoteDown}
	store := NewSettingsStore(source, config.SettingsConfig{}, WithSettingsMetrics(m))

	got := store.Get(context.Background())
	assert.Equal(t, DefaultSettings(), got)
	assert.True(t, store.Degraded())
}

func TestSettingsFallBackListsDepartments(t *testing.T) {
	departments := &fakeDepartmentStore{departments: []model.Department{dinkes()}}
	store := NewSettingsStore(&fakeSettingsSource{err: errRemoteDown}, config.SettingsConfig{}, WithDirectoryFallback(departments))

	got := store.Get(context.Background())
	assert.True(t, got.EmailForwarding)
	assert.False(t, got.WhatsAppForwarding)
	assert.Equal(t, []model.Department{dinkes()}, got.Departments)
	assert.True(t, store.Degraded())

	departments.listErr = errRemoteDown
	got = store.Get(context.Background())
	assert.Equal(t, []model.Department{dinkes()}, got.Departments, "earlier listing is kept")
}

func TestSettingsFallBackSkipsListingOnceLoaded(t *testing.T) {
	departments := &fakeDepartmentStore{departments: []model.Department{dinkes()}}
	source := &fakeSettingsSource{settings: remoteSettings()}
	store := NewSettingsStore(source, config.SettingsConfig{}, WithDirectoryFallback(departments))
	store.Get(context.Background())

	source.err = errRemoteDown
	got := store.Get(context.Background())
	assert.Equal(t, "admin@dinsos.go.id", got.AdminEmail)
	assert.Equal(t, 0, departments.listCalls)
}

func TestSettingsKeepLastGoodCopy(t *testing.T) {
	source := &fakeSettingsSource{settings: remoteSettings()}
	store := NewSettingsStore(source, config.SettingsConfig{Refresh: config.RefreshAlways})
	store.Get(context.Background())

	source.err = errRemoteDown
	got := store.Get(context.Background())
	assert.Equal(t, "admin@dinsos.go.id", got.AdminEmail)
	assert.True(t, store.Degraded())

	source.err = nil
	store.Get(context.Background())
	assert.False(t, store.Degraded())
}

func TestSettingsPatch(t *testing.T) {
	source := &fakeSettingsSource{settings: remoteSettings()}
	store := NewSettingsStore(source, config.SettingsConfig{Refresh: config.RefreshManual})
	store.Get(context.Background())

	on := true
	got, err := store.Patch(context.Background(), model.SettingsPatch{WhatsAppForwarding: &on})
	require.NoError(t, err)
	assert.True(t, got.WhatsAppForwarding)
	assert.True(t, got.EmailForwarding)
	require.Len(t, source.patches, 1)

	bad := model.ForwardingMode("sometimes")
	_, err = store.Patch(context.Background(), model.SettingsPatch{Mode: &bad})
	assert.Error(t, err)
	assert.Len(t, source.patches, 1)
}
