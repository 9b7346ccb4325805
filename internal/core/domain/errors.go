package domain

import "errors"

var (
	// ErrUnauthenticated means there is no valid session; callers redirect to login.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAuthorizationDenied means the session's role may not open the view.
	ErrAuthorizationDenied = errors.New("access denied")
	// ErrFetchFailed wraps a failed remote read. Any previously cached data is kept.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMutationFailed wraps a failed remote write. No cache entry was touched.
	ErrMutationFailed = errors.New("mutation failed")
	// ErrInvalidArgument flags malformed input, e.g. duplicate notification ids.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrTokenRevoked       = errors.New("token revoked")
)
