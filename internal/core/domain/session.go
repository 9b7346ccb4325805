package domain

// Session is the authentication state of one dashboard user. It is replaced
// wholesale on login/logout; there is no partial update path.
//
// An unauthenticated session never carries a role or token.
type Session struct {
	authenticated bool
	username      string
	role          Role
	token         string
}

// AnonymousSession returns the unauthenticated session.
func AnonymousSession() Session {
	return Session{}
}

// NewSession builds an authenticated session. It returns ErrInvalidArgument
// when the role is not assignable or the token is empty.
func NewSession(username string, role Role, token string) (Session, error) {
	if !role.Valid() || token == "" {
		return Session{}, ErrInvalidArgument
	}
	return Session{authenticated: true, username: username, role: role, token: token}, nil
}

func (s Session) Authenticated() bool { return s.authenticated }
func (s Session) Username() string    { return s.username }
func (s Session) Role() Role          { return s.role }

// Token returns the opaque bearer token. Callers forward it to the remote API
// and must not store it elsewhere.
func (s Session) Token() string { return s.token }
