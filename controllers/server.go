package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/logic"
	"github.com/gravitl/scimdir/models"
	"github.com/gravitl/scimdir/servercfg"
)

func (h *directoryHandler) serverHandlers(r *mux.Router) {
	r.HandleFunc("/api/server/health", http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		resp.WriteHeader(http.StatusOK)
		resp.Write([]byte("Server is up and running!!"))
	}))
	r.HandleFunc("/api/server/getconfig", logic.SecurityCheck(http.HandlerFunc(getConfig))).Methods(http.MethodGet)
	r.HandleFunc("/api/server/refresh", logic.SecurityCheck(http.HandlerFunc(h.refresh))).Methods(http.MethodPost)
	r.HandleFunc("/scim/v2/ServiceProviderConfig", logic.SecurityCheck(http.HandlerFunc(h.getServiceProviderConfig))).Methods(http.MethodGet)
}

func getConfig(w http.ResponseWriter, r *http.Request) {
	type serverInfo struct {
		Version string      `json:"version"`
		Config  interface{} `json:"config"`
	}
	logic.ReturnJSON(w, http.StatusOK, serverInfo{Version: servercfg.GetVersion(), Config: servercfg.GetServerConfig()})
}

// refresh - reloads both caches from the store
func (h *directoryHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.Refresh(); err != nil {
		logic.ReturnErrorResponse(w, r, logic.FormatError(err, logic.ErrorType(err)))
		return
	}
	logger.Log(1, r.Header.Get("client"), "refreshed directory caches")
	logic.ReturnSuccessResponse(w, r, "directory refreshed")
}

func (h *directoryHandler) getServiceProviderConfig(w http.ResponseWriter, r *http.Request) {
	logic.ReturnJSON(w, http.StatusOK, models.NewServiceProviderConfig(h.dir.GetImplementedCapabilities()))
}
