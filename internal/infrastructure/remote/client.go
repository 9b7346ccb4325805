// Package remote implements ports.RemoteAPI against the city-management REST
// API, plus an in-memory stand-in used in demo mode.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Config holds the settings of the REST client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the remote REST API. Bearer tokens are forwarded unchanged.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.RemoteAPI = (*Client)(nil)

// NewClient creates a Client. A default timeout is applied when none is set.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "remote").Logger(),
	}
}

// StatusError is a non-2xx answer from the remote API. It unwraps to the
// matching domain error when there is one.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrAuthorizationDenied
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrUserExists
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidArgument
	}
	return nil
}

// do issues one request. body is JSON-encoded when non-nil; out receives the
// decoded response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("remote call")

	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: msg}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	var res authDTO
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, "", creds, &res)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status < http.StatusInternalServerError {
			return domain.AuthResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return domain.AuthResult{}, err
	}
	return res.toDomain(), nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	var path string
	switch reg.Role {
	case domain.RoleCityManager:
		path = "/auth/register/city-manager"
	case domain.RoleServiceProviderAdmin:
		path = "/auth/register/service-provider-admin"
	default:
		return domain.AuthResult{}, fmt.Errorf("%w: role %s cannot self-register", domain.ErrInvalidArgument, reg.Role)
	}

	payload := struct {
		domain.Registration
		Name string `json:"name,omitempty"`
	}{reg, strings.TrimSpace(reg.FirstName + " " + reg.LastName)}

	var res authDTO
	err := c.do(ctx, http.MethodPost, path, nil, "", payload, &res)
	if err != nil {
		// The backend answers 400 when the username is taken.
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusBadRequest {
			return domain.AuthResult{}, fmt.Errorf("%w: %w", domain.ErrUserExists, err)
		}
		return domain.AuthResult{}, err
	}
	return res.toDomain(), nil
}

func (c *Client) DashboardStats(ctx context.Context, token string) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, token, nil, &out)
	return out, err
}

func (c *Client) DashboardOverview(ctx context.Context, token string) (domain.DashboardOverview, error) {
	var out domain.DashboardOverview
	err := c.do(ctx, http.MethodGet, "/dashboard/overview", nil, token, nil, &out)
	return out, err
}

func (c *Client) Notifications(ctx context.Context, token string) ([]domain.Notification, error) {
	var dtos []notificationDTO
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, token, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Notification, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, token, nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPut, "/notifications/mark-all-read", nil, token, nil, nil)
}

func (c *Client) Users(ctx context.Context, token string, filters domain.UserFilters) ([]domain.User, error) {
	q := url.Values{}
	if filters.Role.Valid() {
		q.Set("role", filters.Role.String())
	}
	if filters.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*filters.IsActive))
	}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	var dtos []userDTO
	if err := c.do(ctx, http.MethodGet, "/users", q, token, nil, &dtos); err != nil {
		return nil, err
	}
	return usersToDomain(dtos), nil
}

func (c *Client) ServiceProviderUsers(ctx context.Context, token string) ([]domain.User, error) {
	var dtos []userDTO
	if err := c.do(ctx, http.MethodGet, "/users/service-provider", nil, token, nil, &dtos); err != nil {
		return nil, err
	}
	return usersToDomain(dtos), nil
}

func (c *Client) User(ctx context.Context, token, id string) (domain.User, error) {
	var dto userDTO
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, token, nil, &dto); err != nil {
		return domain.User{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) CreateServiceProviderUser(ctx context.Context, token string, in domain.CreateUserInput) (domain.User, error) {
	payload := createUserDTO{
		CreateUserInput: in,
		Name:            strings.TrimSpace(in.FirstName + " " + in.LastName),
	}
	var dto userDTO
	if err := c.do(ctx, http.MethodPost, "/users/service-provider", nil, token, payload, &dto); err != nil {
		return domain.User{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) UpdateUser(ctx context.Context, token, id string, in domain.UpdateUserInput) (domain.User, error) {
	payload := struct {
		domain.UpdateUserInput
		Active *bool   `json:"active,omitempty"`
		Name   *string `json:"name,omitempty"`
	}{UpdateUserInput: in, Active: in.IsActive}
	if in.FirstName != nil || in.LastName != nil {
		var first, last string
		if in.FirstName != nil {
			first = *in.FirstName
		}
		if in.LastName != nil {
			last = *in.LastName
		}
		name := strings.TrimSpace(first + " " + last)
		payload.Name = &name
	}

	var dto userDTO
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, token, payload, &dto); err != nil {
		return domain.User{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, token, nil, nil)
}

func (c *Client) Simulations(ctx context.Context, token string) ([]domain.Simulation, error) {
	var dtos []simulationDTO
	if err := c.do(ctx, http.MethodGet, "/simulations", nil, token, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Simulation, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (c *Client) Simulation(ctx context.Context, token, id string) (domain.Simulation, error) {
	var dto simulationDTO
	if err := c.do(ctx, http.MethodGet, "/simulations/"+url.PathEscape(id), nil, token, nil, &dto); err != nil {
		return domain.Simulation{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) RunSimulation(ctx context.Context, token string, in domain.RunSimulationInput) (domain.Simulation, error) {
	payload := runSimulationDTO{RunSimulationInput: in, Type: in.Scenario}
	var dto simulationDTO
	if err := c.do(ctx, http.MethodPost, "/simulations/run", nil, token, payload, &dto); err != nil {
		return domain.Simulation{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) DeleteSimulation(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/simulations/"+url.PathEscape(id), nil, token, nil, nil)
}

func indicatorQuery(f domain.IndicatorFilters) url.Values {
	q := url.Values{}
	if f.TimeRange != "" {
		q.Set("timeRange", string(f.TimeRange))
	}
	if f.Start != "" {
		q.Set("start", f.Start)
	}
	if f.End != "" {
		q.Set("end", f.End)
	}
	return q
}

func (c *Client) TransportIndicator(ctx context.Context, token string, mode domain.TransportMode, f domain.IndicatorFilters) (domain.TransportIndicator, error) {
	var out domain.TransportIndicator
	err := c.do(ctx, http.MethodGet, "/indicators/"+url.PathEscape(string(mode)), indicatorQuery(f), token, nil, &out)
	if err == nil && out.Mode == "" {
		out.Mode = mode
	}
	return out, err
}

func (c *Client) CityEvents(ctx context.Context, token string, f domain.IndicatorFilters) ([]domain.CityEvent, error) {
	var out []domain.CityEvent
	err := c.do(ctx, http.MethodGet, "/indicators/events", indicatorQuery(f), token, nil, &out)
	return out, err
}

func (c *Client) ConstructionProjects(ctx context.Context, token string, f domain.IndicatorFilters) ([]domain.ConstructionProject, error) {
	var out []domain.ConstructionProject
	err := c.do(ctx, http.MethodGet, "/indicators/construction", indicatorQuery(f), token, nil, &out)
	return out, err
}

func (c *Client) SystemStatus(ctx context.Context, token string) (domain.SystemStatus, error) {
	var out domain.SystemStatus
	err := c.do(ctx, http.MethodGet, "/system/status", nil, token, nil, &out)
	return out, err
}

func (c *Client) SystemHealth(ctx context.Context, token string) (domain.SystemHealth, error) {
	var out domain.SystemHealth
	err := c.do(ctx, http.MethodGet, "/system/health", nil, token, nil, &out)
	return out, err
}
