package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/logic"
	"github.com/gravitl/scimdir/models"
	"github.com/gravitl/scimdir/validation"
)

func (h *directoryHandler) groupHandlers(r *mux.Router) {
	r.HandleFunc("/scim/v2/Groups", logic.SecurityCheck(http.HandlerFunc(h.getGroups))).Methods(http.MethodGet)
	r.HandleFunc("/scim/v2/Groups", logic.SecurityCheck(http.HandlerFunc(h.createGroup))).Methods(http.MethodPost)
	r.HandleFunc("/scim/v2/Groups/{id}", logic.SecurityCheck(http.HandlerFunc(h.getGroup))).Methods(http.MethodGet)
	r.HandleFunc("/scim/v2/Groups/{id}", logic.SecurityCheck(http.HandlerFunc(h.updateGroup))).Methods(http.MethodPut)
	r.HandleFunc("/scim/v2/Groups/{id}", logic.SecurityCheck(http.HandlerFunc(h.deleteGroup))).Methods(http.MethodDelete)
}

func (h *directoryHandler) getGroups(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	resp, err := h.dir.GetGroups(page)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logic.ReturnJSON(w, http.StatusOK, resp)
}

func (h *directoryHandler) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.dir.GetGroup(mux.Vars(r)["id"])
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logic.ReturnJSON(w, http.StatusOK, group)
}

func decodeGroup(r *http.Request) (models.Group, error) {
	var group models.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		return group, err
	}
	return group, validation.ValidateGroup(&group)
}

func (h *directoryHandler) createGroup(w http.ResponseWriter, r *http.Request) {
	group, err := decodeGroup(r)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	created, err := h.dir.CreateGroup(group)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logger.Log(1, r.Header.Get("client"), "created group", created.ID, created.DisplayName)
	logic.ReturnJSON(w, http.StatusCreated, created)
}

func (h *directoryHandler) updateGroup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	group, err := decodeGroup(r)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	updated, err := h.dir.UpdateGroup(id, group)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logger.Log(1, r.Header.Get("client"), "updated group", id)
	logic.ReturnJSON(w, http.StatusOK, updated)
}

func (h *directoryHandler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.dir.DeleteGroup(id); err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logger.Log(1, r.Header.Get("client"), "deleted group", id)
	w.WriteHeader(http.StatusNoContent)
}
