package cnst

import "errors"

var (
	// ErrNotFound is returned when a record does not exist in the caller's
	// organization. Cross-tenant lookups return this same error so that a
	// foreign record is indistinguishable from an absent one.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when the email is already registered,
	// in any organization.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateSubdomain is returned when a unique subdomain could not
	// be assigned to an organization.
	ErrDuplicateSubdomain = errors.New("subdomain already in use")

	// ErrAccountLocked is returned while a user's lockout window is open.
	ErrAccountLocked = errors.New("account temporarily locked")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenExpired is returned for verification or reset tokens
	// presented after their expiry timestamp.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTenantMismatch is returned when a token's organization does not
	// match the organization of the user it names.
	ErrTenantMismatch = errors.New("token organization mismatch")

	// ErrOrgNotOperational is returned when the organization is disabled
	// or its subscription has lapsed.
	ErrOrgNotOperational = errors.New("organization is not operational")

	ErrUserInactive = errors.New("user account is disabled")

	ErrInvalidDatabaseType = errors.New("invalid database type")
)
