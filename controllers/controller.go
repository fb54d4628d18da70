package controller

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/logic"
	"github.com/gravitl/scimdir/servercfg"
)

// NewRouter - builds the SCIM router over a directory
func NewRouter(dir *logic.Directory) *mux.Router {
	r := mux.NewRouter()
	api := &directoryHandler{dir: dir}
	api.userHandlers(r)
	api.groupHandlers(r)
	api.serverHandlers(r)
	api.hookHandlers(r)
	return r
}

// HandleRESTRequests - serves the SCIM api until ctx is cancelled
func HandleRESTRequests(ctx context.Context, wg *sync.WaitGroup, dir *logic.Directory) {
	defer wg.Done()

	headersOk := handlers.AllowedHeaders([]string{"Access-Control-Allow-Origin", "X-Requested-With", "Content-Type", "authorization"})
	originsOk := handlers.AllowedOrigins([]string{servercfg.GetAllowedOrigin()})
	methodsOk := handlers.AllowedMethods([]string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete})

	addr := servercfg.GetAPIHost() + ":" + servercfg.GetAPIPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.CORS(originsOk, headersOk, methodsOk)(NewRouter(dir)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log(0, err.Error())
		}
	}()
	logger.Log(0, "REST Server successfully started on", addr)

	<-ctx.Done()
	logger.Log(0, "Stopping the REST server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log(0, "REST shutdown error occurred -", err.Error())
	}
	logger.Log(0, "REST Server closed.")
}

type directoryHandler struct {
	dir *logic.Directory
}
