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

func (h *directoryHandler) userHandlers(r *mux.Router) {
	r.HandleFunc("/scim/v2/Users", logic.SecurityCheck(http.HandlerFunc(h.getUsers))).Methods(http.MethodGet)
	r.HandleFunc("/scim/v2/Users", logic.SecurityCheck(http.HandlerFunc(h.createUser))).Methods(http.MethodPost)
	r.HandleFunc("/scim/v2/Users/{id}", logic.SecurityCheck(http.HandlerFunc(h.getUser))).Methods(http.MethodGet)
	r.HandleFunc("/scim/v2/Users/{id}", logic.SecurityCheck(http.HandlerFunc(h.updateUser))).Methods(http.MethodPut)
}

// passwords never leave the connector
func redactUser(u models.User) models.User {
	u.Password = ""
	return u
}

func (h *directoryHandler) getUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	f, err := filterFromQuery(r)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	resp, err := h.dir.GetUsers(page, f)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	for i := range resp.Resources {
		resp.Resources[i] = redactUser(resp.Resources[i])
	}
	logic.ReturnJSON(w, http.StatusOK, resp)
}

func (h *directoryHandler) getUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, err := h.dir.GetUser(id)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logic.ReturnJSON(w, http.StatusOK, redactUser(user))
}

func (h *directoryHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		logger.Log(0, r.Header.Get("client"), "error decoding request body:", err.Error())
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	if err := validation.ValidateUser(&user); err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	created, err := h.dir.CreateUser(user)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logger.Log(1, r.Header.Get("client"), "created user", created.ID, created.UserName)
	logic.ReturnJSON(w, http.StatusCreated, redactUser(created))
}

func (h *directoryHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		logger.Log(0, r.Header.Get("client"), "error decoding request body:", err.Error())
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	if err := validation.ValidateUser(&user); err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	updated, err := h.dir.UpdateUser(id, user)
	if err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logger.Log(1, r.Header.Get("client"), "updated user", id)
	logic.ReturnJSON(w, http.StatusOK, redactUser(updated))
}
