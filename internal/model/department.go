package model

// Department is an organizational unit that receives forwarded complaints
type Department struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	WhatsApp   string     `json:"whatsapp,omitempty"`
	Categories []Category `json:"categories"`
	Active     bool       `json:"active"`
}

// Handles reports whether the department is responsible for category
func (d Department) Handles(category Category) bool {
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// DepartmentRequest is the create/update payload for a department
type DepartmentRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"omitempty,email"`
	WhatsApp   string   `json:"whatsapp"`
	Categories []string `json:"categories" binding:"required,min=1"`
	Active     *bool    `json:"active"`
}
