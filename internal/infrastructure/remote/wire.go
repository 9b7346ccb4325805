package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// The backend serialises numeric ids and zone-less timestamps; the dashboard
// contract uses string ids and RFC 3339. The wire types below accept both.

// flexID decodes a JSON string or number into its string form.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

var localLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime decodes RFC 3339, zone-less local date-times (read as UTC) and
// epoch milliseconds.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = flexTime{}
		return nil
	}
	if len(b) > 0 && b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("time: %w", err)
		}
		*t = flexTime(time.UnixMilli(ms).UTC())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = flexTime{}
		return nil
	}
	for _, layout := range localLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("time: unrecognised layout %q", s)
}

func (t flexTime) Time() time.Time { return time.Time(t) }

type notificationDTO struct {
	ID        flexID   `json:"id"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Read      bool     `json:"read"`
	Timestamp flexTime `json:"timestamp"`
	CreatedAt flexTime `json:"createdAt"`
	UserID    flexID   `json:"userId"`
}

func (d notificationDTO) toDomain() domain.Notification {
	kind, err := domain.ParseNotificationKind(strings.ToUpper(d.Type))
	if err != nil {
		kind = domain.KindInfo
	}
	at := d.Timestamp.Time()
	if at.IsZero() {
		at = d.CreatedAt.Time()
	}
	return domain.Notification{
		ID:        string(d.ID),
		Kind:      kind,
		Title:     d.Title,
		Body:      d.Message,
		CreatedAt: at,
		Read:      d.Read,
		UserID:    string(d.UserID),
	}
}

type userDTO struct {
	ID          flexID      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	Name        string      `json:"name"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Department  string      `json:"department"`
	PhoneNumber string      `json:"phoneNumber"`
	Active      *bool       `json:"active"`
	IsActive    *bool       `json:"isActive"`
	CreatedAt   flexTime    `json:"createdAt"`
	UpdatedAt   flexTime    `json:"updatedAt"`
	LastLogin   flexTime    `json:"lastLogin"`
}

func (d userDTO) toDomain() domain.User {
	u := domain.User{
		ID:          string(d.ID),
		Username:    d.Username,
		Email:       d.Email,
		Role:        d.Role,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Department:  d.Department,
		PhoneNumber: d.PhoneNumber,
		IsActive:    true,
		CreatedAt:   d.CreatedAt.Time(),
		UpdatedAt:   d.UpdatedAt.Time(),
		LastLogin:   d.LastLogin.Time(),
	}
	if u.FirstName == "" && u.LastName == "" && d.Name != "" {
		first, last, _ := strings.Cut(strings.TrimSpace(d.Name), " ")
		u.FirstName, u.LastName = first, strings.TrimSpace(last)
	}
	switch {
	case d.IsActive != nil:
		u.IsActive = *d.IsActive
	case d.Active != nil:
		u.IsActive = *d.Active
	}
	return u
}

func usersToDomain(in []userDTO) []domain.User {
	out := make([]domain.User, len(in))
	for i, d := range in {
		out[i] = d.toDomain()
	}
	return out
}

type authDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func (d authDTO) toDomain() domain.AuthResult {
	return domain.AuthResult{Token: d.Token, User: d.User.toDomain()}
}

// createUserDTO sends both the split and the combined name so either backend
// shape picks it up.
type createUserDTO struct {
	domain.CreateUserInput
	Name string `json:"name,omitempty"`
}

type simulationDTO struct {
	ID          flexID                      `json:"id"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Scenario    string                      `json:"scenario"`
	Type        string                      `json:"type"`
	Parameters  domain.SimulationParameters `json:"parameters"`
	Status      string                      `json:"status"`
	CreatedBy   flexID                      `json:"createdBy"`
	CreatedAt   flexTime                    `json:"createdAt"`
	StartedAt   flexTime                    `json:"startedAt"`
	CompletedAt flexTime                    `json:"completedAt"`
	Results     *domain.SimulationResults   `json:"results"`
}

func (d simulationDTO) toDomain() domain.Simulation {
	scenario := d.Scenario
	if scenario == "" {
		scenario = d.Type
	}
	return domain.Simulation{
		ID:          string(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Scenario:    scenario,
		Parameters:  d.Parameters,
		Status:      domain.SimulationStatus(strings.ToLower(d.Status)),
		CreatedBy:   string(d.CreatedBy),
		CreatedAt:   d.CreatedAt.Time(),
		StartedAt:   d.StartedAt.Time(),
		CompletedAt: d.CompletedAt.Time(),
		Results:     d.Results,
	}
}

type runSimulationDTO struct {
	domain.RunSimulationInput
	Type string `json:"type"`
}
