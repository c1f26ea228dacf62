package remote

import (
	"context"
	"net/http"

	"bansos-dispatch/internal/model"
)

type settingsRecord struct {
	EmailForwarding    bool                 `json:"email_forwarding"`
	WhatsAppForwarding bool                 `json:"whatsapp_forwarding"`
	Mode               model.ForwardingMode `json:"forwarding_mode"`
	AdminEmail         string               `json:"admin_email"`
	AdminWhatsApp      string               `json:"admin_whatsapp"`
	Departments        []departmentRecord   `json:"departments"`
}

func (r settingsRecord) settings() model.ForwardingSettings {
	s := model.ForwardingSettings{
		EmailForwarding:    r.EmailForwarding,
		WhatsAppForwarding: r.WhatsAppForwarding,
		Mode:               r.Mode,
		AdminEmail:         r.AdminEmail,
		AdminWhatsApp:      r.AdminWhatsApp,
	}
	for _, d := range r.Departments {
		s.Departments = append(s.Departments, d.department())
	}
	if s.Mode == "" {
		s.Mode = model.ModeAuto
	}
	return s
}

// GetForwardingSettings fetches the forwarding settings. When the settings
// payload carries no department list the directory is fetched separately.
func (c *Client) GetForwardingSettings(ctx context.Context) (model.ForwardingSettings, error) {
	var record settingsRecord
	if err := c.do(ctx, http.MethodGet, "/settings/forwarding", nil, nil, &record); err != nil {
		return model.ForwardingSettings{}, err
	}
	s := record.settings()
	if record.Departments == nil {
		departments, err := c.ListDepartments(ctx)
		if err != nil {
			return model.ForwardingSettings{}, err
		}
		s.Departments = departments
	}
	return s, nil
}

// PatchForwardingSettings sends a partial update
func (c *Client) PatchForwardingSettings(ctx context.Context, patch model.SettingsPatch) error {
	return c.do(ctx, http.MethodPatch, "/settings/forwarding", nil, patch, nil)
}
