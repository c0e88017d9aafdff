package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"travel-nav-service/internal/api/handlers"
	"travel-nav-service/internal/navigation"
	"travel-nav-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers stay unaware of
// concrete adapters.
func NewRouter(sessions *navigation.Manager, store ports.DestinationStore, log *zap.Logger) http.Handler {
	r := mux.NewRouter()

	health := &handlers.HealthHandler{Log: log}
	sh := &handlers.SessionHandler{Sessions: sessions, Store: store, Log: log}

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	r.HandleFunc("/sessions", sh.Create).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", sh.Get).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", sh.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/locate", sh.Locate).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/destination", sh.SetDestination).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/navigate", sh.Navigate).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/stop", sh.StopNavigation).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/mode", sh.ChangeMode).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/events", sh.Events).Methods(http.MethodGet)

	wrap := loggingMiddleware(log)
	return wrap(r)
}
