package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/exp/slog"

	"github.com/gravitl/scimdir/logic"
	"github.com/gravitl/scimdir/models"
)

func (h *directoryHandler) hookHandlers(r *mux.Router) {
	r.HandleFunc("/api/hooks/password", logic.SecurityCheck(http.HandlerFunc(h.verifyPassword))).Methods(http.MethodPost)
}

// verifyPassword - password import inline hook. Unknown or inactive users are unverified.
func (h *directoryHandler) verifyPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "badrequest"))
		return
	}
	credential := req.Data.Context.Credential
	if credential.Username == "" {
		logic.ReturnErrorResponse(w, r, logic.FormatError(errors.New("credential username is required"), "badrequest"))
		return
	}
	verified, err := h.dir.VerifyCredential(credential.Username, credential.Password)
	switch {
	case errors.Is(err, logic.ErrServiceUnavailable):
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, "unavailable"))
		return
	case err != nil:
		slog.Info("password hook rejected credential", "user", credential.Username, "reason", err.Error())
	}
	logic.ReturnJSON(w, http.StatusOK, models.NewPasswordHookResponse(verified))
}
