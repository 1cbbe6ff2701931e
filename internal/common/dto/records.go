package dto

import "time"

// CreateDeliveryRequest logs a goods delivery control. Any organizationId in
// the payload is ignored; the record is stamped from the caller's context.
type CreateDeliveryRequest struct {
	Supplier     string    `json:"supplier"`
	Product      string    `json:"product"`
	DeliveryDate time.Time `json:"deliveryDate"`
	Temperature  float64   `json:"temperature"`
	PackagingOK  bool      `json:"packagingOk"`
	LabelingOK   bool      `json:"labelingOk"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
}

// UpdateDeliveryRequest patches mutable delivery fields. Nil means untouched.
type UpdateDeliveryRequest struct {
	Supplier     *string    `json:"supplier"`
	Product      *string    `json:"product"`
	DeliveryDate *time.Time `json:"deliveryDate"`
	Temperature  *float64   `json:"temperature"`
	PackagingOK  *bool      `json:"packagingOk"`
	LabelingOK   *bool      `json:"labelingOk"`
	Status       *string    `json:"status"`
	Notes        *string    `json:"notes"`
}

// CreateStorageRecordRequest logs a storage unit temperature reading.
type CreateStorageRecordRequest struct {
	Unit        string    `json:"unit"`
	RecordedAt  time.Time `json:"recordedAt"`
	Temperature float64   `json:"temperature"`
	TargetMin   float64   `json:"targetMin"`
	TargetMax   float64   `json:"targetMax"`
	Notes       string    `json:"notes"`
}

// UpdateStorageRecordRequest patches mutable storage record fields.
type UpdateStorageRecordRequest struct {
	Unit        *string    `json:"unit"`
	RecordedAt  *time.Time `json:"recordedAt"`
	Temperature *float64   `json:"temperature"`
	TargetMin   *float64   `json:"targetMin"`
	TargetMax   *float64   `json:"targetMax"`
	Notes       *string    `json:"notes"`
}

// CreateIncidentRequest reports a sanitary non-conformity.
type CreateIncidentRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	DetectedAt  time.Time `json:"detectedAt"`
}

// UpdateIncidentRequest patches mutable incident fields. Status is not
// patchable here: resolution is its own explicit endpoint.
type UpdateIncidentRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Severity    *string    `json:"severity"`
	DetectedAt  *time.Time `json:"detectedAt"`
}

// CreateCorrectiveActionRequest adds a remediation step to an incident.
type CreateCorrectiveActionRequest struct {
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
}

// UpdateCorrectiveActionRequest patches a corrective action; setting
// Completed marks it done.
type UpdateCorrectiveActionRequest struct {
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	Completed   *bool   `json:"completed"`
}

// ResolveIncidentRequest closes an incident. Resolution is always an
// explicit caller action.
type ResolveIncidentRequest struct {
	ResolutionNotes string `json:"resolutionNotes"`
}

// CreateTechnicalSheetRequest registers a product technical sheet.
type CreateTechnicalSheetRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Ingredients  string `json:"ingredients"`
	Allergens    string `json:"allergens"`
	Elaboration  string `json:"elaboration"`
	Conservation string `json:"conservation"`
}

// UpdateTechnicalSheetRequest patches a technical sheet.
type UpdateTechnicalSheetRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Ingredients  *string `json:"ingredients"`
	Allergens    *string `json:"allergens"`
	Elaboration  *string `json:"elaboration"`
	Conservation *string `json:"conservation"`
	IsActive     *bool   `json:"isActive"`
}
