package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("  kesehatan ")
	require.NoError(t, err)
	assert.Equal(t, CategoryKesehatan, c)

	c, err = ParseCategory("BANTUAN SOSIAL")
	require.NoError(t, err)
	assert.Equal(t, CategoryBantuanSosial, c)

	_, err = ParseCategory("Kuliner")
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestParseCategories(t *testing.T) {
	known, unknown := ParseCategories([]string{"Kesehatan", "Kuliner", "kesehatan", "Pendidikan"})
	assert.Equal(t, []Category{CategoryKesehatan, CategoryPendidikan}, known)
	assert.Equal(t, []string{"Kuliner"}, unknown)
}

func TestDepartmentHandles(t *testing.T) {
	d := Department{Categories: []Category{CategoryKesehatan}}
	assert.True(t, d.Handles(CategoryKesehatan))
	assert.False(t, d.Handles(CategoryPendidikan))
}

func TestSettingsPatchApply(t *testing.T) {
	on := true
	email := "admin@dinsos.go.id"
	s := SettingsPatch{WhatsAppForwarding: &on, AdminEmail: &email}.Apply(ForwardingSettings{
		EmailForwarding: true,
		Mode:            ModeAuto,
	})

	assert.True(t, s.EmailForwarding)
	assert.True(t, s.WhatsAppForwarding)
	assert.Equal(t, ModeAuto, s.Mode)
	assert.Equal(t, email, s.AdminEmail)
}

func TestForwardLogRoundTrip(t *testing.T) {
	entry := ForwardingLogEntry{
		ID:             "5f1c2a8e-0000-4000-8000-000000000001",
		Timestamp:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		ComplaintID:    "C-1",
		ComplaintTitle: "Puskesmas tutup",
		DepartmentID:   "D-1",
		DepartmentName: "Dinas Kesehatan",
		Results: []DispatchResult{
			{Type: ChannelEmail, Success: false, Message: "smtp: auth failed"},
			{Type: ChannelWhatsApp, Success: true, Message: "ok"},
		},
	}

	log := NewForwardLog(entry)
	assert.True(t, log.Success)
	require.Len(t, log.Dispatches, 2)
	assert.Equal(t, 1, log.Dispatches[1].Position)

	assert.Equal(t, entry, log.Entry())
}

func TestForwardingLogEntrySuccess(t *testing.T) {
	assert.True(t, ForwardingLogEntry{}.Success())
	assert.False(t, ForwardingLogEntry{Results: []DispatchResult{{Type: ChannelEmail}}}.Success())
}

func TestApplicationStatus(t *testing.T) {
	assert.True(t, StatusNeedsCompletion.Valid())
	assert.False(t, ApplicationStatus("archived").Valid())
	assert.True(t, StatusApproved.Final())
	assert.False(t, StatusUnderReview.Final())
}

func TestComplaintIsHighPriority(t *testing.T) {
	for _, p := range []string{"high", "High", "URGENT", " urgent "} {
		assert.True(t, Complaint{Priority: p}.IsHighPriority(), p)
	}
	for _, p := range []string{"", "medium", "Low", "highest"} {
		assert.False(t, Complaint{Priority: p}.IsHighPriority(), p)
	}
}
