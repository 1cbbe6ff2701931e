package database

import "time"

// Role represents the permission tier of a user within its organization
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
	RoleReadOnly Role = "readonly"
)

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleReadOnly
}

// CanWrite reports whether the role may create or mutate business records.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleUser
}

// Plan represents a subscription plan
type Plan string

const (
	PlanFree    Plan = "free"
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

// PlanLimits holds the static quota table entry for a plan.
type PlanLimits struct {
	MaxUsers       int   `json:"maxUsers"`
	StorageLimitMB int64 `json:"storageLimitMb"`
	APICallsLimit  int64 `json:"apiCallsLimit"`
}

var planLimits = map[Plan]PlanLimits{
	PlanFree:    {MaxUsers: 3, StorageLimitMB: 512, APICallsLimit: 10_000},
	PlanBasic:   {MaxUsers: 10, StorageLimitMB: 5 * 1024, APICallsLimit: 100_000},
	PlanPremium: {MaxUsers: 50, StorageLimitMB: 50 * 1024, APICallsLimit: 1_000_000},
}

// LimitsForPlan returns the static per-plan quota table entry. Unknown plans
// fall back to the free tier.
func LimitsForPlan(p Plan) PlanLimits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanFree]
}

// SubscriptionStatus represents the billing state of an organization
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Organization represents one tenant. All business data is partitioned by it.
type Organization struct {
	ID                    uint               `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                  string             `json:"name" gorm:"type:varchar(100);not null"`
	Subdomain             string             `json:"subdomain" gorm:"type:varchar(30);uniqueIndex;not null"`
	EstablishmentName     string             `json:"establishmentName" gorm:"type:varchar(100)"`
	EstablishmentAddress  string             `json:"establishmentAddress" gorm:"type:varchar(200)"`
	EstablishmentPhone    string             `json:"establishmentPhone" gorm:"type:varchar(30)"`
	LogoURL               string             `json:"logoUrl" gorm:"type:varchar(300)"`
	PrimaryColor          string             `json:"primaryColor" gorm:"type:varchar(20)"`
	Plan                  Plan               `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	SubscriptionStatus    SubscriptionStatus `json:"subscriptionStatus" gorm:"type:varchar(20);not null;default:'active'"`
	SubscriptionExpiresAt *time.Time         `json:"subscriptionExpiresAt"`
	IsActive              bool               `json:"isActive" gorm:"not null;default:true"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// Operational reports whether tenant-scoped operations are allowed: the
// organization is active, its subscription is active, and any expiry lies in
// the future.
func (o *Organization) Operational() bool {
	if !o.IsActive || o.SubscriptionStatus != SubscriptionActive {
		return false
	}
	return o.SubscriptionExpiresAt == nil || o.SubscriptionExpiresAt.After(time.Now())
}

// Limits returns the quota table entry for the organization's plan.
func (o *Organization) Limits() PlanLimits {
	return LimitsForPlan(o.Plan)
}

// User represents one human actor. Email uniqueness is global, not
// per-tenant, and OrgID is set once at creation and never reassigned.
// Users are deactivated rather than deleted so historical attribution on
// records they registered stays resolvable.
type User struct {
	ID                uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID             uint       `json:"organizationId" gorm:"index;not null"`
	Email             string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name              string     `json:"name" gorm:"type:varchar(100);not null"`
	Password          string     `json:"-" gorm:"not null"`
	Role              Role       `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	IsActive          bool       `json:"isActive" gorm:"not null;default:true"`
	EmailVerified     bool       `json:"emailVerified" gorm:"not null;default:false"`
	VerifyToken       string     `json:"-" gorm:"type:varchar(64);index"`
	VerifyExpiresAt   *time.Time `json:"-"`
	ResetToken        string     `json:"-" gorm:"type:varchar(64);index"`
	ResetExpiresAt    *time.Time `json:"-"`
	FailedLogins      int        `json:"-" gorm:"not null;default:0"`
	LockedUntil       *time.Time `json:"-"`
	LastLoginAt       *time.Time `json:"lastLoginAt"`
	PasswordChangedAt time.Time  `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Locked reports whether the lockout window is still open.
func (u *User) Locked() bool {
	return u.LockedUntil != nil && u.LockedUntil.After(time.Now())
}

// DeliveryStatus represents the acceptance decision on a delivery
type DeliveryStatus string

const (
	DeliveryAccepted DeliveryStatus = "accepted"
	DeliveryRejected DeliveryStatus = "rejected"
)

// DeliveryRecord logs the reception control of one goods delivery.
type DeliveryRecord struct {
	ID           uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID        uint           `json:"organizationId" gorm:"index:idx_deliveries_org_date;not null"`
	RegisteredBy uint           `json:"registeredBy" gorm:"not null"`
	Supplier     string         `json:"supplier" gorm:"type:varchar(100);not null"`
	Product      string         `json:"product" gorm:"type:varchar(100);not null"`
	DeliveryDate time.Time      `json:"deliveryDate" gorm:"index:idx_deliveries_org_date;not null"`
	Temperature  float64        `json:"temperature"`
	PackagingOK  bool           `json:"packagingOk"`
	LabelingOK   bool           `json:"labelingOk"`
	Status       DeliveryStatus `json:"status" gorm:"type:varchar(20);not null"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// StorageRecord logs one temperature reading of a storage unit.
type StorageRecord struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID        uint      `json:"organizationId" gorm:"index:idx_storage_org_date;not null"`
	RegisteredBy uint      `json:"registeredBy" gorm:"not null"`
	Unit         string    `json:"unit" gorm:"type:varchar(50);not null"`
	RecordedAt   time.Time `json:"recordedAt" gorm:"index:idx_storage_org_date;not null"`
	Temperature  float64   `json:"temperature"`
	TargetMin    float64   `json:"targetMin"`
	TargetMax    float64   `json:"targetMax"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WithinRange reports whether the reading falls inside the unit's target band.
func (r *StorageRecord) WithinRange() bool {
	return r.Temperature >= r.TargetMin && r.Temperature <= r.TargetMax
}

// Severity classifies an incident
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is one of the known levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// IncidentStatus represents the lifecycle state of an incident
type IncidentStatus string

const (
	IncidentOpen       IncidentStatus = "open"
	IncidentInProgress IncidentStatus = "in_progress"
	IncidentResolved   IncidentStatus = "resolved"
)

// Valid reports whether the status is one of the known states.
func (s IncidentStatus) Valid() bool {
	return s == IncidentOpen || s == IncidentInProgress || s == IncidentResolved
}

// Incident represents a logged sanitary non-conformity. Incidents are kept
// for audit: deletion is soft, and resolution is only ever an explicit
// transition requested by a user, never inferred from corrective actions.
type Incident struct {
	ID              uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID           uint           `json:"organizationId" gorm:"index:idx_incidents_org_status;not null"`
	ReportedBy      uint           `json:"reportedBy" gorm:"not null"`
	Title           string         `json:"title" gorm:"type:varchar(100);not null"`
	Description     string         `json:"description" gorm:"type:text;not null"`
	Severity        Severity       `json:"severity" gorm:"type:varchar(20);not null"`
	Status          IncidentStatus `json:"status" gorm:"type:varchar(20);index:idx_incidents_org_status;not null;default:'open'"`
	DetectedAt      time.Time      `json:"detectedAt" gorm:"not null"`
	ResolvedAt      *time.Time     `json:"resolvedAt"`
	ResolutionNotes string         `json:"resolutionNotes" gorm:"type:text"`
	IsDeleted       bool           `json:"-" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`

	Actions []CorrectiveAction `json:"actions,omitempty" gorm:"foreignKey:IncidentID"`
}

// ActionStatus represents the completion state of a corrective action
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completada"
)

// CorrectiveAction documents one remediation step taken against a parent
// incident. OrgID is denormalized from the incident so child lookups carry
// the same isolation key as every other record.
type CorrectiveAction struct {
	ID          uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	IncidentID  uint         `json:"incidentId" gorm:"index;not null"`
	OrgID       uint         `json:"organizationId" gorm:"index;not null"`
	Description string       `json:"description" gorm:"type:varchar(500);not null"`
	AssignedTo  string       `json:"assignedTo" gorm:"type:varchar(100)"`
	Status      ActionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CompletedAt *time.Time   `json:"completedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TechnicalSheet describes a prepared product: composition, allergens and
// conservation requirements. Config-style entity, hard deletion is allowed.
type TechnicalSheet struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID        uint      `json:"organizationId" gorm:"index:idx_sheets_org_category;not null"`
	CreatedBy    uint      `json:"createdBy" gorm:"not null"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Category     string    `json:"category" gorm:"type:varchar(50);index:idx_sheets_org_category"`
	Ingredients  string    `json:"ingredients" gorm:"type:text"`
	Allergens    string    `json:"allergens" gorm:"type:text"`
	Elaboration  string    `json:"elaboration" gorm:"type:text"`
	Conservation string    `json:"conservation" gorm:"type:text"`
	IsActive     bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
