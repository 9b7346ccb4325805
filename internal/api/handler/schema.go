package handler

import "github.com/scm/dashboard-gateway/internal/core/domain"

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=64"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type sessionResponse struct {
	Authenticated   bool   `json:"authenticated"`
	Username        string `json:"username,omitempty"`
	Role            string `json:"role,omitempty"`
	RoleDisplayName string `json:"roleDisplayName,omitempty"`
}

type navigationEntryResponse struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Path    string   `json:"path"`
	Section string   `json:"section,omitempty"`
	Roles   []string `json:"roles,omitempty"`
}

type navigationSectionResponse struct {
	Title   string                    `json:"title,omitempty"`
	Entries []navigationEntryResponse `json:"entries"`
}

type viewAccessResponse struct {
	View     string `json:"view"`
	Decision string `json:"decision"`
	Target   string `json:"target,omitempty"`
}

type createUserRequest struct {
	Username    string `json:"username"    validate:"required,min=3,max=64"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=6"`
	Role        string `json:"role"        validate:"omitempty,oneof=SERVICE_PROVIDER_USER"`
	FirstName   string `json:"firstName"   validate:"max=100"`
	LastName    string `json:"lastName"    validate:"max=100"`
	Department  string `json:"department"  validate:"max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
}

type updateUserRequest struct {
	Email       *string `json:"email"       validate:"omitempty,email"`
	FirstName   *string `json:"firstName"   validate:"omitempty,max=100"`
	LastName    *string `json:"lastName"    validate:"omitempty,max=100"`
	Department  *string `json:"department"  validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=32"`
	IsActive    *bool   `json:"isActive"`
}

type runSimulationRequest struct {
	Name        string                      `json:"name"        validate:"required,max=200"`
	Description string                      `json:"description" validate:"max=2000"`
	Scenario    string                      `json:"scenario"    validate:"required"`
	Parameters  domain.SimulationParameters `json:"parameters"`
}

type messageResponse struct {
	Message string `json:"message"`
}
