package domain

import "time"

// User is an account as reported by the remote API.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	Role        Role      `json:"role"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	Department  string    `json:"department,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
	LastLogin   time.Time `json:"lastLogin,omitzero"`
}

// Credentials are the login inputs forwarded to the remote API.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration carries self-registration data for city managers and
// service-provider admins.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      Role   `json:"userType"`
}

// AuthResult is what the remote API returns on login or registration.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserInput creates a service-provider user.
type CreateUserInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Department  string `json:"department,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Department  *string `json:"department,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// UserFilters narrows a user listing.
type UserFilters struct {
	Role     Role   `json:"role,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
	Search   string `json:"search,omitempty"`
}

// IsZero reports whether no filter is set.
func (f UserFilters) IsZero() bool {
	return f.Role == RoleNone && f.IsActive == nil && f.Search == ""
}
