// Package gateway is the JSON HTTP client for the JustiFy portal backend.
// The backend owns all business logic and persistence; this client only
// issues parameterized requests and normalizes the known response shapes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrBackendRejected is returned when the backend answers with status=false.
var ErrBackendRejected = errors.New("backend rejected request")

// Client issues JSON requests to named backend endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a gateway client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login authenticates a user and returns the account identity.
func (c *Client) Login(ctx context.Context, email, password string) (*Account, error) {
	var resp struct {
		Status  bool   `json:"status"`
		UserID  int64  `json:"user_id"`
		IsAdmin int    `json:"is_admin"`
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/UserController/login", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: %s", ErrBackendRejected, resp.Message)
	}
	return &Account{UserID: resp.UserID, IsAdmin: resp.IsAdmin != 0, Name: resp.Name}, nil
}

// Register creates a new citizen account.
func (c *Client) Register(ctx context.Context, name, email, phone, password string) error {
	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
	payload := map[string]string{
		"name":     name,
		"email":    email,
		"phone":    phone,
		"password": password,
	}
	if err := c.postJSON(ctx, "/UserController/register", payload, &resp); err != nil {
		return err
	}
	if !resp.Status {
		return fmt.Errorf("%w: %s", ErrBackendRejected, resp.Message)
	}
	return nil
}

// SubmitComplaint files a new complaint for the given user.
func (c *Client) SubmitComplaint(ctx context.Context, userID int64, subject, category, description string) error {
	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
	payload := map[string]any{
		"user_id":     userID,
		"subject":     subject,
		"category":    category,
		"description": description,
	}
	if err := c.postJSON(ctx, "/ComplaintController/submitComplaint", payload, &resp); err != nil {
		return err
	}
	if !resp.Status {
		return fmt.Errorf("%w: %s", ErrBackendRejected, resp.Message)
	}
	return nil
}

// ListComplaints returns the user's complaints.
func (c *Client) ListComplaints(ctx context.Context, userID int64) ([]Complaint, error) {
	var resp struct {
		Status     bool            `json:"status"`
		Complaints []wireComplaint `json:"complaints"`
	}
	path := fmt.Sprintf("/ComplaintController/getComplaints/%d", userID)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrBackendRejected
	}
	out := make([]Complaint, 0, len(resp.Complaints))
	for _, w := range resp.Complaints {
		out = append(out, w.normalize())
	}
	return out, nil
}

// ListTickets returns the user's tickets with their processing status.
func (c *Client) ListTickets(ctx context.Context, userID int64) ([]Ticket, error) {
	var resp struct {
		Status  bool         `json:"status"`
		Tickets []wireTicket `json:"tickets"`
	}
	path := fmt.Sprintf("/TicketController/getTickets/%d", userID)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrBackendRejected
	}
	out := make([]Ticket, 0, len(resp.Tickets))
	for _, w := range resp.Tickets {
		out = append(out, w.normalize())
	}
	return out, nil
}

// ListNews returns published portal news, newest first.
func (c *Client) ListNews(ctx context.Context) ([]NewsItem, error) {
	var resp struct {
		Status bool       `json:"status"`
		News   []wireNews `json:"news"`
	}
	if err := c.getJSON(ctx, "/NewsController/getNews", &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrBackendRejected
	}
	out := make([]NewsItem, 0, len(resp.News))
	for _, w := range resp.News {
		out = append(out, w.normalize())
	}
	return out, nil
}

// GetStatistics returns the dashboard rollups.
func (c *Client) GetStatistics(ctx context.Context) (*Statistics, error) {
	var resp struct {
		Status bool `json:"status"`
		Stats  struct {
			TotalComplaints    int64            `json:"total_complaints"`
			OpenComplaints     int64            `json:"open_complaints"`
			ResolvedComplaints int64            `json:"resolved_complaints"`
			TotalUsers         int64            `json:"total_users"`
			ComplaintsByMonth  map[string]int64 `json:"complaints_by_month"`
		} `json:"stats"`
	}
	if err := c.getJSON(ctx, "/StatisticsController/getStatistics", &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrBackendRejected
	}
	return &Statistics{
		TotalComplaints:    resp.Stats.TotalComplaints,
		OpenComplaints:     resp.Stats.OpenComplaints,
		ResolvedComplaints: resp.Stats.ResolvedComplaints,
		TotalUsers:         resp.Stats.TotalUsers,
		ComplaintsByMonth:  resp.Stats.ComplaintsByMonth,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
