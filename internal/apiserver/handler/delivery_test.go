package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDelivery() dto.CreateDeliveryRequest {
	return dto.CreateDeliveryRequest{
		Supplier:     "Frutas SA",
		Product:      "Tomates",
		DeliveryDate: time.Now().Add(-time.Hour),
		Temperature:  4.5,
		PackagingOK:  true,
		LabelingOK:   true,
		Status:       "accepted",
	}
}

func TestDelivery_CreateStampsTenantAndAuthor(t *testing.T) {
	e := newTestEnv(t)
	org, user, token := e.seedTenant(t, "org-a", "ana@example.com")

	// a forged organizationId in the payload must lose to the token's org
	body := map[string]any{
		"organizationId": 999,
		"supplier":       "Frutas SA",
		"product":        "Tomates",
		"deliveryDate":   time.Now().Add(-time.Hour).Format(time.RFC3339),
		"temperature":    4.5,
		"packagingOk":    true,
		"labelingOk":     true,
		"status":         "accepted",
	}
	w := e.do(t, http.MethodPost, "/api/records/deliveries", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := dataMap(t, w)
	assert.EqualValues(t, org.ID, data["organizationId"])
	assert.EqualValues(t, user.ID, data["registeredBy"])
	assert.Equal(t, "accepted", data["status"])
}

func TestDelivery_CreateValidation(t *testing.T) {
	e := newTestEnv(t)
	_, _, token := e.seedTenant(t, "org-a", "ana@example.com")

	req := dto.CreateDeliveryRequest{
		Supplier:     "ab", // too short
		Product:      "T",  // too short
		DeliveryDate: time.Now().Add(time.Hour),
		Status:       "maybe",
	}
	w := e.do(t, http.MethodPost, "/api/records/deliveries", token, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := envelope(t, w)
	fields := make(map[string]bool)
	for _, fe := range resp.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["supplier"])
	assert.True(t, fields["product"])
	assert.True(t, fields["deliveryDate"])
	assert.True(t, fields["status"])
}

func TestDelivery_CrossTenantIsNotFound(t *testing.T) {
	e := newTestEnv(t)
	_, _, tokenA := e.seedTenant(t, "org-a", "ana@example.com")
	_, _, tokenB := e.seedTenant(t, "org-b", "bea@example.com")

	w := e.do(t, http.MethodPost, "/api/records/deliveries", tokenA, validDelivery())
	require.Equal(t, http.StatusCreated, w.Code)
	id := dataMap(t, w)["id"]

	path := fmt.Sprintf("/api/records/deliveries/%v", id)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, path, tokenA, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, path, tokenB, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodDelete, path, tokenB, nil).Code)

	supplier := "Hacked"
	assert.Equal(t, http.StatusNotFound,
		e.do(t, http.MethodPut, path, tokenB, dto.UpdateDeliveryRequest{Supplier: &supplier}).Code)
}

func TestDelivery_ReadOnlyRoleCannotWrite(t *testing.T) {
	e := newTestEnv(t)
	org, _, _ := e.seedTenant(t, "org-a", "ana@example.com")
	_, readerToken := e.seedMember(t, org.ID, "reader@example.com", "readonly")

	w := e.do(t, http.MethodPost, "/api/records/deliveries", readerToken, validDelivery())
	assert.Equal(t, http.StatusForbidden, w.Code)

	// reads are still allowed
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/records/deliveries", readerToken, nil).Code)
}

func TestDelivery_ListFiltersAndPagination(t *testing.T) {
	e := newTestEnv(t)
	_, _, token := e.seedTenant(t, "org-a", "ana@example.com")

	for i := 0; i < 3; i++ {
		req := validDelivery()
		if i == 2 {
			req.Status = "rejected"
		}
		require.Equal(t, http.StatusCreated,
			e.do(t, http.MethodPost, "/api/records/deliveries", token, req).Code)
	}

	w := e.do(t, http.MethodGet, "/api/records/deliveries?status=accepted", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := envelope(t, w)
	require.NotNil(t, resp.Pagination)
	assert.EqualValues(t, 2, resp.Pagination.Total)

	w = e.do(t, http.MethodGet, "/api/records/deliveries?limit=2&page=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = envelope(t, w)
	assert.EqualValues(t, 3, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Pages)
	assert.Equal(t, 2, resp.Pagination.Current)

	// invalid enum in the filter is rejected, not ignored
	w = e.do(t, http.MethodGet, "/api/records/deliveries?status=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelivery_Update(t *testing.T) {
	e := newTestEnv(t)
	_, _, token := e.seedTenant(t, "org-a", "ana@example.com")

	w := e.do(t, http.MethodPost, "/api/records/deliveries", token, validDelivery())
	require.Equal(t, http.StatusCreated, w.Code)
	id := dataMap(t, w)["id"]

	status := "rejected"
	notes := "broken cold chain"
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/records/deliveries/%v", id), token,
		dto.UpdateDeliveryRequest{Status: &status, Notes: &notes})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := dataMap(t, w)
	assert.Equal(t, "rejected", data["status"])
	assert.Equal(t, notes, data["notes"])
	// untouched fields stay
	assert.Equal(t, "Frutas SA", data["supplier"])
}

func TestStorageRecord_TargetRangeValidated(t *testing.T) {
	e := newTestEnv(t)
	_, _, token := e.seedTenant(t, "org-a", "ana@example.com")

	req := dto.CreateStorageRecordRequest{
		Unit:        "Fridge 1",
		RecordedAt:  time.Now().Add(-time.Minute),
		Temperature: 4,
		TargetMin:   8,
		TargetMax:   2,
	}
	w := e.do(t, http.MethodPost, "/api/records/storage", token, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req.TargetMin, req.TargetMax = 2, 8
	w = e.do(t, http.MethodPost, "/api/records/storage", token, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := dataMap(t, w)["id"]

	// a patch may not invert the band either
	min := 10.0
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/records/storage/%v", id), token,
		dto.UpdateStorageRecordRequest{TargetMin: &min})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTechnicalSheet_CRUD(t *testing.T) {
	e := newTestEnv(t)
	_, _, token := e.seedTenant(t, "org-a", "ana@example.com")

	w := e.do(t, http.MethodPost, "/api/records/technical-sheets", token, dto.CreateTechnicalSheetRequest{
		Name:        "Gazpacho",
		Category:    "soups",
		Ingredients: "tomato, cucumber, pepper, olive oil",
		Allergens:   "none",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := dataMap(t, w)
	assert.Equal(t, true, data["isActive"])
	id := data["id"]

	inactive := false
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/records/technical-sheets/%v", id), token,
		dto.UpdateTechnicalSheetRequest{IsActive: &inactive})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, dataMap(t, w)["isActive"])

	w = e.do(t, http.MethodGet, "/api/records/technical-sheets?active=false", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, envelope(t, w).Pagination.Total)

	assert.Equal(t, http.StatusOK,
		e.do(t, http.MethodDelete, fmt.Sprintf("/api/records/technical-sheets/%v", id), token, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		e.do(t, http.MethodGet, fmt.Sprintf("/api/records/technical-sheets/%v", id), token, nil).Code)
}
