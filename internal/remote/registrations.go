package remote

import (
	"context"
	"net/http"
	"net/url"

	"bansos-dispatch/internal/model"
)

// ListApplications fetches registrations with the given status
func (c *Client) ListApplications(ctx context.Context, status model.ApplicationStatus) ([]model.Application, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	var apps []model.Application
	if err := c.do(ctx, http.MethodGet, "/registrations", query, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ListPendingApplications fetches registrations awaiting review
func (c *Client) ListPendingApplications(ctx context.Context) ([]model.Application, error) {
	return c.ListApplications(ctx, model.StatusPending)
}

// GetApplication fetches one registration
func (c *Client) GetApplication(ctx context.Context, id string) (model.Application, error) {
	var app model.Application
	if err := c.do(ctx, http.MethodGet, "/registrations/"+url.PathEscape(id), nil, nil, &app); err != nil {
		return model.Application{}, err
	}
	return app, nil
}

type statusUpdate struct {
	ID     string                  `json:"id"`
	Status model.ApplicationStatus `json:"status"`
	Notes  string                  `json:"notes"`
}

// UpdateApplicationStatus transitions a registration status
func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus, notes string) error {
	body := statusUpdate{ID: id, Status: status, Notes: notes}
	return c.do(ctx, http.MethodPatch, "/registrations/"+url.PathEscape(id)+"/status", nil, body, nil)
}
