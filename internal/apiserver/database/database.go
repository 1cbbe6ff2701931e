package database

import (
	"context"
	"time"
)

// Pagination describes an offset/limit page request. Page is 1-based.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the page request to sane bounds.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// DeliveryFilter narrows delivery record listings. Zero values are ignored.
type DeliveryFilter struct {
	Status   DeliveryStatus
	Supplier string
	From     time.Time
	To       time.Time
}

// StorageFilter narrows storage record listings.
type StorageFilter struct {
	Unit string
	From time.Time
	To   time.Time
}

// IncidentFilter narrows incident listings.
type IncidentFilter struct {
	Status   IncidentStatus
	Severity Severity
	From     time.Time
	To       time.Time
}

// SheetFilter narrows technical sheet listings.
type SheetFilter struct {
	Category string
	Active   *bool
}

// Database defines the persistence operations of the apiserver. Every
// business-record method takes the caller's organization ID and scopes the
// query by it; cross-tenant IDs behave exactly like missing ones.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn inside a transaction carried by the context.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Organizations
	CreateOrganization(ctx context.Context, org *Organization) error
	GetOrganizationByID(ctx context.Context, id uint) (*Organization, error)
	GetOrganizationBySubdomain(ctx context.Context, subdomain string) (*Organization, error)
	UpdateOrganization(ctx context.Context, org *Organization) error
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)

	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByVerifyToken(ctx context.Context, token string) (*User, error)
	GetUserByResetToken(ctx context.Context, token string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListUsersByOrg(ctx context.Context, orgID uint) ([]*User, error)
	CountUsersByOrg(ctx context.Context, orgID uint) (int64, error)

	// Delivery records
	CreateDelivery(ctx context.Context, rec *DeliveryRecord) error
	GetDelivery(ctx context.Context, orgID, id uint) (*DeliveryRecord, error)
	ListDeliveries(ctx context.Context, orgID uint, f DeliveryFilter, p Pagination) ([]*DeliveryRecord, int64, error)
	UpdateDelivery(ctx context.Context, rec *DeliveryRecord) error
	DeleteDelivery(ctx context.Context, orgID, id uint) error

	// Storage records
	CreateStorageRecord(ctx context.Context, rec *StorageRecord) error
	GetStorageRecord(ctx context.Context, orgID, id uint) (*StorageRecord, error)
	ListStorageRecords(ctx context.Context, orgID uint, f StorageFilter, p Pagination) ([]*StorageRecord, int64, error)
	UpdateStorageRecord(ctx context.Context, rec *StorageRecord) error
	DeleteStorageRecord(ctx context.Context, orgID, id uint) error

	// Incidents and corrective actions
	CreateIncident(ctx context.Context, inc *Incident) error
	GetIncident(ctx context.Context, orgID, id uint) (*Incident, error)
	ListIncidents(ctx context.Context, orgID uint, f IncidentFilter, p Pagination) ([]*Incident, int64, error)
	UpdateIncident(ctx context.Context, inc *Incident) error
	SoftDeleteIncident(ctx context.Context, orgID, id uint) error
	CreateCorrectiveAction(ctx context.Context, action *CorrectiveAction) error
	GetCorrectiveAction(ctx context.Context, orgID, incidentID, actionID uint) (*CorrectiveAction, error)
	UpdateCorrectiveAction(ctx context.Context, action *CorrectiveAction) error

	// Technical sheets
	CreateTechnicalSheet(ctx context.Context, sheet *TechnicalSheet) error
	GetTechnicalSheet(ctx context.Context, orgID, id uint) (*TechnicalSheet, error)
	ListTechnicalSheets(ctx context.Context, orgID uint, f SheetFilter, p Pagination) ([]*TechnicalSheet, int64, error)
	UpdateTechnicalSheet(ctx context.Context, sheet *TechnicalSheet) error
	DeleteTechnicalSheet(ctx context.Context, orgID, id uint) error
}
