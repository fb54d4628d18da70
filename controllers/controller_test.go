package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitl/scimdir/database"
	"github.com/gravitl/scimdir/logic"
	"github.com/gravitl/scimdir/models"
)

const (
	testMasterKey = "secretkey"
	testNamespace = "urn:okta:mysql_app:1.0:user:custom"
)

func newTestRouter(t *testing.T) (http.Handler, *logic.Directory) {
	t.Helper()
	t.Setenv("MASTER_KEY", testMasterKey)
	gw := database.NewMemoryGateway()
	require.NoError(t, gw.Init())
	dir := logic.NewDirectory(gw, logic.Options{UserNamespace: testNamespace})
	require.NoError(t, dir.Init())
	users, groups := logic.SampleDirectory(testNamespace)
	_, err := dir.Seed(users, groups, true)
	require.NoError(t, err)
	return NewRouter(dir), dir
}

func doRequest(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Authorization", "Bearer "+testMasterKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSecurity(t *testing.T) {
	h, _ := newTestRouter(t)
	t.Run("NoToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/scim/v2/Users", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("ProvisioningToken", func(t *testing.T) {
		logic.SetJWTSecret("jwtsecret")
		token, err := logic.CreateProvisioningJWT("okta")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/scim/v2/Groups", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("Health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/server/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServiceProviderConfig(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/scim/v2/ServiceProviderConfig", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(models.GroupPush))
}

func TestServerRoutes(t *testing.T) {
	h, dir := newTestRouter(t)
	t.Run("GetConfig", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/server/getconfig", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), testMasterKey)
	})
	t.Run("Refresh", func(t *testing.T) {
		_, err := dir.CreateGroup(models.Group{DisplayName: "thirdGroup"})
		require.NoError(t, err)
		rec := doRequest(t, h, http.MethodPost, "/api/server/refresh", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.SuccessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "directory refreshed", resp.Message)
		groups, err := dir.GetGroups(nil)
		require.NoError(t, err)
		assert.Equal(t, 3, groups.TotalResults)
	})
}
