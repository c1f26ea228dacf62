package service

import (
	"context"
	"errors"
	"sync"

	"bansos-dispatch/internal/channel"
	"bansos-dispatch/internal/model"
)

type sentMessage struct {
	destination string
	msg         channel.Message
}

type fakeChannel struct {
	kind      model.ChannelType
	succeed   bool
	detail    string
	simulated bool

	mu   sync.Mutex
	sent []sentMessage
}

func newFakeChannel(kind model.ChannelType, succeed bool, detail string) *fakeChannel {
	return &fakeChannel{kind: kind, succeed: succeed, detail: detail}
}

func (f *fakeChannel) Type() model.ChannelType { return f.kind }

func (f *fakeChannel) Simulated() bool { return f.simulated }

func (f *fakeChannel) Send(ctx context.Context, destination string, msg channel.Message) model.DispatchResult {
	f.mu.Lock()
	f.sent = append(f.sent, sentMessage{destination: destination, msg: msg})
	f.mu.Unlock()
	return model.DispatchResult{Type: f.kind, Success: f.succeed, Message: f.detail}
}

func (f *fakeChannel) calls() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type staticSettings struct {
	settings model.ForwardingSettings
}

func (s staticSettings) Get(ctx context.Context) model.ForwardingSettings {
	return s.settings
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []model.ForwardingLogEntry
}

func (r *recordingAudit) Append(ctx context.Context, entry model.ForwardingLogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

type fakeSettingsSource struct {
	settings model.ForwardingSettings
	err      error
	calls    int
	patches  []model.SettingsPatch
}

func (f *fakeSettingsSource) GetForwardingSettings(ctx context.Context) (model.ForwardingSettings, error) {
	f.calls++
	if f.err != nil {
		return model.ForwardingSettings{}, f.err
	}
	return f.settings, nil
}

func (f *fakeSettingsSource) PatchForwardingSettings(ctx context.Context, patch model.SettingsPatch) error {
	if f.err != nil {
		return f.err
	}
	f.patches = append(f.patches, patch)
	f.settings = patch.Apply(f.settings)
	return nil
}

var errRemoteDown = errors.New("remote API unavailable")

type fakeDepartmentStore struct {
	departments []model.Department
	listErr     error
	listCalls   int
	created     []model.Department
	updated     []model.Department
	deleted     []string
}

func (f *fakeDepartmentStore) ListDepartments(ctx context.Context) ([]model.Department, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.departments, nil
}

func (f *fakeDepartmentStore) GetDepartment(ctx context.Context, id string) (model.Department, error) {
	for _, d := range f.departments {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Department{}, errors.New("not found")
}

func (f *fakeDepartmentStore) CreateDepartment(ctx context.Context, d model.Department) (model.Department, error) {
	d.ID = "new-1"
	f.created = append(f.created, d)
	return d, nil
}

func (f *fakeDepartmentStore) UpdateDepartment(ctx context.Context, d model.Department) (model.Department, error) {
	f.updated = append(f.updated, d)
	return d, nil
}

func (f *fakeDepartmentStore) DeleteDepartment(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDepartmentStore) ToggleDepartment(ctx context.Context, id string) (model.Department, error) {
	d, err := f.GetDepartment(ctx, id)
	d.Active = !d.Active
	return d, err
}

type fakeApplicationStore struct {
	apps    []model.Application
	err     error
	updates []string
}

func (f *fakeApplicationStore) ListPendingApplications(ctx context.Context) ([]model.Application, error) {
	return f.apps, f.err
}

func (f *fakeApplicationStore) GetApplication(ctx context.Context, id string) (model.Application, error) {
	for _, a := range f.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Application{}, errors.New("not found")
}

func (f *fakeApplicationStore) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus, notes string) error {
	f.updates = append(f.updates, id+":"+string(status))
	return nil
}
