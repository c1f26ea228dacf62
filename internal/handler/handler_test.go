package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bansos-dispatch/internal/auditlog"
	"bansos-dispatch/internal/channel"
	"bansos-dispatch/internal/config"
	"bansos-dispatch/internal/metrics"
	"bansos-dispatch/internal/model"
	"bansos-dispatch/internal/remote"
	"bansos-dispatch/internal/service"
	"bansos-dispatch/internal/service/scheduler"
)

// fakeRemote stands in for the social-assistance REST API
type fakeRemote struct {
	mu       sync.Mutex
	emails   []remote.EmailRequest
	patches  []map[string]interface{}
	statuses []string
}

const settingsJSON = `{
	"email_forwarding": true,
	"whatsapp_forwarding": false,
	"forwarding_mode": "auto",
	"admin_email": "admin@dinsos.go.id",
	"departments": [
		{"id": "D-1", "name": "Dinas Kesehatan", "email": "dinkes@kota.go.id", "whatsapp": "081234567890", "categories": ["Kesehatan"], "active": true},
		{"id": "D-2", "name": "Dinas Pendidikan", "email": "disdik@kota.go.id", "categories": ["Pendidikan"], "active": false}
	]
}`

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/settings/forwarding" && r.Method == http.MethodGet:
		w.Write([]byte(settingsJSON))
	case r.URL.Path == "/settings/forwarding" && r.Method == http.MethodPatch:
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.patches = append(f.patches, body)
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/departments" && r.Method == http.MethodPost:
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		body["id"] = "D-9"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"data": body})
	case r.URL.Path == "/departments/D-404":
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Department not found"}`))
	case r.URL.Path == "/notifications/email":
		var req remote.EmailRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.emails = append(f.emails, req)
		w.Write([]byte(`{"success":true,"message":"Email berhasil dikirim"}`))
	case r.URL.Path == "/registrations" && r.URL.Query().Get("status") == "pending":
		w.Write([]byte(`{"data":[
			{"id":"REG-LOW","applicant":{"name":"A","monthly_income":5000000},"status":"pending","submitted_at":"2026-10-13T00:00:00Z"},
			{"id":"REG-HIGH","applicant":{"name":"B","monthly_income":800000,"dependents":5},"status":"pending","submitted_at":"2026-10-13T00:00:00Z"}
		]}`))
	case r.URL.Path == "/registrations/REG-DONE":
		w.Write([]byte(`{"id":"REG-DONE","status":"approved"}`))
	case strings.HasSuffix(r.URL.Path, "/status") && r.Method == http.MethodPatch:
		f.statuses = append(f.statuses, r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"unexpected ` + r.Method + ` ` + r.URL.Path + `"}`))
	}
}

type testEnv struct {
	router *gin.Engine
	remote *fakeRemote
	audit  *auditlog.Ring
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := &fakeRemote{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := remote.NewClient(config.RemoteConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	m := metrics.NewMetricsWith(prometheus.NewRegistry())

	settings := service.NewSettingsStore(client, config.SettingsConfig{Refresh: config.RefreshAlways}, service.WithSettingsMetrics(m))
	email := channel.NewAPIEmail(client)
	whatsapp := channel.NewSimulatedWhatsApp(0)
	audit := auditlog.New(auditlog.DefaultCapacity)
	triage := service.NewTriage(client)

	h := NewHandlers(Deps{
		Departments:       service.NewDepartmentService(client, settings),
		Settings:          settings,
		Orchestrator:      service.NewOrchestrator(settings, email, whatsapp, audit, service.WithOrchestratorMetrics(m)),
		Notifier:          service.NewNotifier(settings, email, whatsapp, m),
		Triage:            triage,
		Audit:             audit,
		Scheduler:         scheduler.New(&config.SchedulerConfig{TriageIntervalMinutes: 15}, triage, settings, m),
		WhatsAppSimulated: whatsapp.Simulated(),
	})

	router := gin.New()
	h.SetupRoutes(router)
	return &testEnv{router: router, remote: fake, audit: audit}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func testComplaint(category, priority string) model.Complaint {
	return model.Complaint{
		ID:           "C-7",
		TicketNumber: "TKT-0007",
		Title:        "Antrean BPJS",
		Description:  "Antrean berjam-jam.",
		Category:     category,
		Priority:     priority,
		Status:       model.ComplaintNew,
	}
}

func TestForwardComplaintWithAdminAlert(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/complaints/forward", ForwardRequest{
		Complaint: testComplaint("Kesehatan", model.PriorityHigh),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ForwardResponse
	decodeBody(t, w, &resp)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Department)
	assert.Equal(t, "D-1", resp.Department.ID)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Email berhasil dikirim", resp.Results[0].Message)
	require.Len(t, resp.AdminAlerts, 1)

	require.Len(t, env.remote.emails, 2)
	to := []string{env.remote.emails[0].To, env.remote.emails[1].To}
	assert.ElementsMatch(t, []string{"dinkes@kota.go.id", "admin@dinsos.go.id"}, to)
	assert.Equal(t, 1, env.audit.Len())
}

func TestForwardComplaintForcedWhatsAppIsSimulated(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/complaints/forward", ForwardRequest{
		Complaint:     testComplaint("Kesehatan", model.PriorityLow),
		ForceWhatsApp: true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ForwardResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, model.ChannelWhatsApp, resp.Results[1].Type)
	assert.Contains(t, resp.Results[1].Message, "[SIMULASI]")
	assert.Empty(t, resp.AdminAlerts)
}

func TestForwardComplaintNoDestination(t *testing.T) {
	env := newTestEnv(t)

	// Dinas Pendidikan exists but is inactive
	w := env.do(t, http.MethodPost, "/api/v1/complaints/forward", ForwardRequest{
		Complaint: testComplaint("Pendidikan", model.PriorityHigh),
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ForwardResponse
	decodeBody(t, w, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, model.ReasonNoDestination, resp.Reason)
	assert.Empty(t, env.remote.emails)
	assert.Equal(t, 0, env.audit.Len())

	w = env.do(t, http.MethodPost, "/api/v1/complaints/forward", ForwardRequest{
		Complaint:    testComplaint("Pendidikan", model.PriorityLow),
		DepartmentID: "D-2",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestForwardComplaintMalformed(t *testing.T) {
	env := newTestEnv(t)

	c := testComplaint("Kesehatan", model.PriorityLow)
	c.ID = ""
	w := env.do(t, http.MethodPost, "/api/v1/complaints/forward", ForwardRequest{Complaint: c})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "malformed_complaint", resp.Error)
}

func TestForwardingLogs(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/complaints/forward", ForwardRequest{Complaint: testComplaint("Kesehatan", model.PriorityLow)})

	w := env.do(t, http.MethodGet, "/api/v1/forwarding/logs?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Logs     []model.ForwardingLogEntry `json:"logs"`
		Total    int                        `json:"total"`
		Capacity int                        `json:"capacity"`
	}
	decodeBody(t, w, &list)
	require.Len(t, list.Logs, 1)
	assert.Equal(t, 100, list.Capacity)
	assert.Equal(t, "Dinas Kesehatan", list.Logs[0].DepartmentName)

	w = env.do(t, http.MethodGet, "/api/v1/forwarding/logs/"+list.Logs[0].ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/forwarding/logs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDepartmentEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/departments", map[string]interface{}{
		"name":       "Disnaker",
		"email":      "disnaker@kota.go.id",
		"categories": []string{"Ketenagakerjaan"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Department
	decodeBody(t, w, &created)
	assert.Equal(t, "D-9", created.ID)
	assert.Equal(t, []model.Category{model.CategoryKetenagakerjaan}, created.Categories)

	w = env.do(t, http.MethodPost, "/api/v1/departments", map[string]interface{}{
		"name":       "Disnaker",
		"categories": []string{"Kuliner"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/departments/D-404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/departments/resolve?category=kesehatan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resolved model.Department
	decodeBody(t, w, &resolved)
	assert.Equal(t, "D-1", resolved.ID)

	w = env.do(t, http.MethodGet, "/api/v1/departments/resolve?category=Pendidikan", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/settings/forwarding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var s model.ForwardingSettings
	decodeBody(t, w, &s)
	assert.True(t, s.EmailForwarding)
	assert.Len(t, s.Departments, 2)

	w = env.do(t, http.MethodPatch, "/api/v1/settings/forwarding", map[string]interface{}{"whatsapp_forwarding": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.remote.patches, 1)
	assert.Equal(t, map[string]interface{}{"whatsapp_forwarding": true}, env.remote.patches[0])

	w = env.do(t, http.MethodPatch, "/api/v1/settings/forwarding", map[string]interface{}{"forwarding_mode": "sometimes"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplicationEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/applications/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Applications []service.ScoredApplication `json:"applications"`
		Total        int                         `json:"total"`
	}
	decodeBody(t, w, &list)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "REG-HIGH", list.Applications[0].ID)

	w = env.do(t, http.MethodGet, "/api/v1/applications/pending?priority=urgent", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/v1/applications/REG-DONE/status", model.StatusUpdateRequest{Status: model.StatusPending})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPatch, "/api/v1/applications/REG-HIGH/status", model.StatusUpdateRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/v1/applications/REG-HIGH/status", model.StatusUpdateRequest{Status: model.StatusUnderReview})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"/registrations/REG-HIGH/status"}, env.remote.statuses)

	w = env.do(t, http.MethodPost, "/api/v1/applications/score", model.Application{
		Applicant: model.ApplicantProfile{Dependents: 5, MonthlyIncome: 800_000},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var scored service.ScoredApplication
	decodeBody(t, w, &scored)
	assert.Equal(t, "high", string(scored.Score.Priority))
}

func TestHealthCheckReportsSimulatedWhatsApp(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	decodeBody(t, w, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "simulated", health.WhatsApp)
	assert.Equal(t, "disabled", health.Database)
}

func TestSchedulerEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/scheduler/run-once", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/scheduler/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/scheduler/status", nil)
	assert.Contains(t, w.Body.String(), `"status":"running"`)
	w = env.do(t, http.MethodPost, "/api/v1/scheduler/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminTestSends(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/admin/test/whatsapp", TestSendRequest{To: "081234567890"})
	require.Equal(t, http.StatusOK, w.Code)
	var res model.DispatchResult
	decodeBody(t, w, &res)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "[SIMULASI]")
}
