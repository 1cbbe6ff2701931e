package dto

import "time"

// OrganizationInfo is the tenant representation returned to clients.
type OrganizationInfo struct {
	ID                    uint       `json:"id"`
	Name                  string     `json:"name"`
	Subdomain             string     `json:"subdomain"`
	EstablishmentName     string     `json:"establishmentName"`
	EstablishmentAddress  string     `json:"establishmentAddress"`
	EstablishmentPhone    string     `json:"establishmentPhone"`
	LogoURL               string     `json:"logoUrl"`
	PrimaryColor          string     `json:"primaryColor"`
	Plan                  string     `json:"plan"`
	SubscriptionStatus    string     `json:"subscriptionStatus"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`
	IsActive              bool       `json:"isActive"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// UpdateOrganizationRequest mutates tenant settings. The subdomain is
// immutable and deliberately absent.
type UpdateOrganizationRequest struct {
	Name                 *string `json:"name"`
	EstablishmentName    *string `json:"establishmentName"`
	EstablishmentAddress *string `json:"establishmentAddress"`
	EstablishmentPhone   *string `json:"establishmentPhone"`
	LogoURL              *string `json:"logoUrl"`
	PrimaryColor         *string `json:"primaryColor"`
}

// LimitsInfo reports the static per-plan quota table entry.
type LimitsInfo struct {
	Plan           string `json:"plan"`
	MaxUsers       int    `json:"maxUsers"`
	CurrentUsers   int64  `json:"currentUsers"`
	StorageLimitMB int64  `json:"storageLimitMb"`
	APICallsLimit  int64  `json:"apiCallsLimit"`
}

// CreateUserRequest invites a user into the caller's organization.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest mutates a managed user. Nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}
