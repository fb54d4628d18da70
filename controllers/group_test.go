package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitl/scimdir/models"
)

func TestGroups(t *testing.T) {
	h, dir := newTestRouter(t)
	t.Run("List", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/scim/v2/Groups", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.GroupQueryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.TotalResults)
	})
	t.Run("Get", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/scim/v2/Groups/1001", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var group models.Group
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &group))
		assert.Equal(t, "firstGroup", group.DisplayName)
		assert.Equal(t, "This is the first group", group.Description())
	})
	t.Run("CreateDuplicate", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/scim/v2/Groups", models.Group{DisplayName: "FIRSTGROUP"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
	t.Run("CreateUpdateDelete", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/scim/v2/Groups", models.Group{DisplayName: "thirdGroup"})
		require.Equal(t, http.StatusCreated, rec.Code)
		var created models.Group
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "1003", created.ID)

		update := models.Group{DisplayName: "thirdGroup", Members: []models.Membership{{Value: "101"}}}
		rec = doRequest(t, h, http.MethodPut, "/scim/v2/Groups/1003", update)
		require.Equal(t, http.StatusOK, rec.Code)
		got, err := dir.GetGroup("1003")
		require.NoError(t, err)
		assert.Len(t, got.Members, 1)

		rec = doRequest(t, h, http.MethodDelete, "/scim/v2/Groups/1003", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = doRequest(t, h, http.MethodDelete, "/scim/v2/Groups/1003", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("Invalid", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/scim/v2/Groups", models.Group{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
