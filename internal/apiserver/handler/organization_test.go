package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganization_GetAndUpdate(t *testing.T) {
	e := newTestEnv(t)
	_, _, token := e.seedTenant(t, "org-a", "ana@example.com")

	w := e.do(t, http.MethodGet, "/api/organization", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "org-a", dataMap(t, w)["subdomain"])

	name := "Cocina Central"
	estName := "Cocina Central SL"
	w = e.do(t, http.MethodPut, "/api/organization", token, dto.UpdateOrganizationRequest{
		Name:              &name,
		EstablishmentName: &estName,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := dataMap(t, w)
	assert.Equal(t, "Cocina Central", data["name"])
	assert.Equal(t, "Cocina Central SL", data["establishmentName"])
	// the subdomain is immutable through this endpoint
	assert.Equal(t, "org-a", data["subdomain"])
}

func TestOrganization_UpdateRequiresAdmin(t *testing.T) {
	e := newTestEnv(t)
	org, _, _ := e.seedTenant(t, "org-a", "ana@example.com")
	_, memberToken := e.seedMember(t, org.ID, "luis@example.com", "user")

	name := "Nope"
	w := e.do(t, http.MethodPut, "/api/organization", memberToken, dto.UpdateOrganizationRequest{Name: &name})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// reading is open to every member
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/organization", memberToken, nil).Code)
}

func TestOrganization_Limits(t *testing.T) {
	e := newTestEnv(t)
	org, _, token := e.seedTenant(t, "org-a", "ana@example.com")
	e.seedMember(t, org.ID, "luis@example.com", "user")

	w := e.do(t, http.MethodGet, "/api/organization/limits", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, "free", data["plan"])
	assert.EqualValues(t, 3, data["maxUsers"])
	assert.EqualValues(t, 2, data["currentUsers"])
}

func TestOrganization_CreateUserQuota(t *testing.T) {
	e := newTestEnv(t)
	_, _, token := e.seedTenant(t, "org-a", "ana@example.com")

	for i := 0; i < 2; i++ {
		w := e.do(t, http.MethodPost, "/api/organization/users", token, dto.CreateUserRequest{
			Name:     "Member",
			Email:    fmt.Sprintf("m%d@example.com", i),
			Password: "supersecret1",
			Role:     "user",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// free plan caps at 3 users
	w := e.do(t, http.MethodPost, "/api/organization/users", token, dto.CreateUserRequest{
		Name:     "One Too Many",
		Email:    "extra@example.com",
		Password: "supersecret1",
		Role:     "user",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrganization_CreateUserDuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	_, _, tokenA := e.seedTenant(t, "org-a", "ana@example.com")
	e.seedTenant(t, "org-b", "bea@example.com")

	// email uniqueness is global across tenants
	w := e.do(t, http.MethodPost, "/api/organization/users", tokenA, dto.CreateUserRequest{
		Name:     "Bea Again",
		Email:    "bea@example.com",
		Password: "supersecret1",
		Role:     "user",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrganization_UserManagementRequiresAdmin(t *testing.T) {
	e := newTestEnv(t)
	org, _, _ := e.seedTenant(t, "org-a", "ana@example.com")
	_, memberToken := e.seedMember(t, org.ID, "luis@example.com", "user")

	assert.Equal(t, http.StatusForbidden,
		e.do(t, http.MethodGet, "/api/organization/users", memberToken, nil).Code)
	assert.Equal(t, http.StatusForbidden,
		e.do(t, http.MethodPost, "/api/organization/users", memberToken, dto.CreateUserRequest{
			Name: "X", Email: "x@example.com", Password: "supersecret1", Role: "user",
		}).Code)
}

func TestOrganization_UpdateAndDeactivateUser(t *testing.T) {
	e := newTestEnv(t)
	org, _, token := e.seedTenant(t, "org-a", "ana@example.com")
	member, _ := e.seedMember(t, org.ID, "luis@example.com", "user")

	role := "readonly"
	w := e.do(t, http.MethodPut, fmt.Sprintf("/api/organization/users/%d", member.ID), token,
		dto.UpdateUserRequest{Role: &role})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "readonly", dataMap(t, w)["role"])

	w = e.do(t, http.MethodDelete, fmt.Sprintf("/api/organization/users/%d", member.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/organization/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	// deactivated, not removed
	resp := envelope(t, w)
	users, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, users, 2)
}

func TestOrganization_CannotDeactivateSelf(t *testing.T) {
	e := newTestEnv(t)
	_, admin, token := e.seedTenant(t, "org-a", "ana@example.com")

	w := e.do(t, http.MethodDelete, fmt.Sprintf("/api/organization/users/%d", admin.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrganization_ForeignUserIsNotFound(t *testing.T) {
	e := newTestEnv(t)
	_, _, tokenA := e.seedTenant(t, "org-a", "ana@example.com")
	_, userB, _ := e.seedTenant(t, "org-b", "bea@example.com")

	name := "Hijacked"
	w := e.do(t, http.MethodPut, fmt.Sprintf("/api/organization/users/%d", userB.ID), tokenA,
		dto.UpdateUserRequest{Name: &name})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodDelete, fmt.Sprintf("/api/organization/users/%d", userB.ID), tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
