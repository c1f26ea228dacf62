package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/model"
)

// departmentRecord is the wire form of a department; categories are free text
// on the API side.
type departmentRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email,omitempty"`
	WhatsApp   string   `json:"whatsapp,omitempty"`
	Categories []string `json:"categories"`
	Active     bool     `json:"active"`
}

func (r departmentRecord) department() model.Department {
	known, unknown := model.ParseCategories(r.Categories)
	if len(unknown) > 0 {
		logrus.WithFields(logrus.Fields{
			"department_id": r.ID,
			"categories":    unknown,
		}).Warn("Ignoring unknown categories on department")
	}
	return model.Department{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		WhatsApp:   r.WhatsApp,
		Categories: known,
		Active:     r.Active,
	}
}

func recordFrom(d model.Department) departmentRecord {
	cats := make([]string, len(d.Categories))
	for i, c := range d.Categories {
		cats[i] = string(c)
	}
	return departmentRecord{
		ID:         d.ID,
		Name:       d.Name,
		Email:      d.Email,
		WhatsApp:   d.WhatsApp,
		Categories: cats,
		Active:     d.Active,
	}
}

// ListDepartments fetches the department directory in API order
func (c *Client) ListDepartments(ctx context.Context) ([]model.Department, error) {
	var records []departmentRecord
	if err := c.do(ctx, http.MethodGet, "/departments", nil, nil, &records); err != nil {
		return nil, err
	}
	departments := make([]model.Department, 0, len(records))
	for _, r := range records {
		departments = append(departments, r.department())
	}
	return departments, nil
}

// GetDepartment fetches one department
func (c *Client) GetDepartment(ctx context.Context, id string) (model.Department, error) {
	var record departmentRecord
	if err := c.do(ctx, http.MethodGet, "/departments/"+url.PathEscape(id), nil, nil, &record); err != nil {
		return model.Department{}, err
	}
	return record.department(), nil
}

// CreateDepartment creates a department and returns the stored record
func (c *Client) CreateDepartment(ctx context.Context, d model.Department) (model.Department, error) {
	var record departmentRecord
	if err := c.do(ctx, http.MethodPost, "/departments", nil, recordFrom(d), &record); err != nil {
		return model.Department{}, err
	}
	return record.department(), nil
}

// UpdateDepartment replaces a department
func (c *Client) UpdateDepartment(ctx context.Context, d model.Department) (model.Department, error) {
	var record departmentRecord
	if err := c.do(ctx, http.MethodPut, "/departments/"+url.PathEscape(d.ID), nil, recordFrom(d), &record); err != nil {
		return model.Department{}, err
	}
	return record.department(), nil
}

// DeleteDepartment removes a department
func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/departments/"+url.PathEscape(id), nil, nil, nil)
}

// ToggleDepartment flips the active flag and returns the updated record
func (c *Client) ToggleDepartment(ctx context.Context, id string) (model.Department, error) {
	var record departmentRecord
	if err := c.do(ctx, http.MethodPatch, "/departments/"+url.PathEscape(id)+"/toggle", nil, nil, &record); err != nil {
		return model.Department{}, err
	}
	return record.department(), nil
}
