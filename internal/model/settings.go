package model

// ForwardingMode says whether complaints are routed by category or by hand
type ForwardingMode string

const (
	ModeAuto   ForwardingMode = "auto"
	ModeManual ForwardingMode = "manual"
)

// ForwardingSettings is the singleton forwarding configuration
type ForwardingSettings struct {
	EmailForwarding    bool           `json:"email_forwarding"`
	WhatsAppForwarding bool           `json:"whatsapp_forwarding"`
	Mode               ForwardingMode `json:"forwarding_mode"`
	AdminEmail         string         `json:"admin_email"`
	AdminWhatsApp      string         `json:"admin_whatsapp"`
	Departments        []Department   `json:"departments"`
}

// SettingsPatch carries any subset of the forwarding settings fields
type SettingsPatch struct {
	EmailForwarding    *bool           `json:"email_forwarding,omitempty"`
	WhatsAppForwarding *bool           `json:"whatsapp_forwarding,omitempty"`
	Mode               *ForwardingMode `json:"forwarding_mode,omitempty"`
	AdminEmail         *string         `json:"admin_email,omitempty" binding:"omitempty,email"`
	AdminWhatsApp      *string         `json:"admin_whatsapp,omitempty"`
}

// Apply returns a copy of s with the patch fields set
func (p SettingsPatch) Apply(s ForwardingSettings) ForwardingSettings {
	if p.EmailForwarding != nil {
		s.EmailForwarding = *p.EmailForwarding
	}
	if p.WhatsAppForwarding != nil {
		s.WhatsAppForwarding = *p.WhatsAppForwarding
	}
	if p.Mode != nil {
		s.Mode = *p.Mode
	}
	if p.AdminEmail != nil {
		s.AdminEmail = *p.AdminEmail
	}
	if p.AdminWhatsApp != nil {
		s.AdminWhatsApp = *p.AdminWhatsApp
	}
	return s
}
