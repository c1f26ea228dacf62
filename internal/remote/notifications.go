package remote

import (
	"context"
	"net/http"
)

// EmailRequest is the body of the email send API
type EmailRequest struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	ComplaintID    string `json:"complaint_id,omitempty"`
	DepartmentName string `json:"department_name,omitempty"`
	Priority       string `json:"priority,omitempty"`
}

// TestEmailRequest is the body of the admin test-send API
type TestEmailRequest struct {
	To   string `json:"to"`
	Type string `json:"type"`
}

// SendResponse is the acknowledgement returned by send endpoints
type SendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendEmail asks the backend to deliver an email
func (c *Client) SendEmail(ctx context.Context, req EmailRequest) (SendResponse, error) {
	var resp SendResponse
	if err := c.do(ctx, http.MethodPost, "/notifications/email", nil, req, &resp); err != nil {
		return SendResponse{}, err
	}
	return resp, nil
}

// SendTestEmail asks the backend to deliver a transport test email
func (c *Client) SendTestEmail(ctx context.Context, req TestEmailRequest) (SendResponse, error) {
	var resp SendResponse
	if err := c.do(ctx, http.MethodPost, "/notifications/email/test", nil, req, &resp); err != nil {
		return SendResponse{}, err
	}
	return resp, nil
}
