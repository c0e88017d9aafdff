package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/navigation"
	"travel-nav-service/internal/ports"
)

// defaultOwner keys the stored destination when the client sends no owner.
const defaultOwner = "default"

// SessionHandler exposes the navigation engine over HTTP. The handler layer
// owns destination persistence; the engine itself never touches the store.
type SessionHandler struct {
	Sessions *navigation.Manager
	Store    ports.DestinationStore
	Log      *zap.Logger
}

func owner(r *http.Request) string {
	if o := r.Header.Get("X-Owner"); o != "" {
		return o
	}
	return defaultOwner
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*navigation.Session, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.Log, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	s, ok := h.Sessions.Get(id)
	if !ok {
		writeError(w, h.Log, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

// Create opens a new navigation session, preloading the last saved
// destination when one exists.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Create()

	if h.Store != nil {
		if dest, ok, err := h.Store.LoadLast(r.Context(), owner(r)); err != nil {
			h.Log.Warn("load saved destination failed", zap.Error(err))
		} else if ok {
			s.SetDestination(r.Context(), dest)
		}
	}

	writeJSON(w, h.Log, http.StatusCreated, s.Snapshot())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.Log, http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.Log, http.StatusBadRequest, "invalid session id")
		return
	}
	h.Sessions.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

type locateRequest struct {
	Query  string `json:"query"`
	Device bool   `json:"device"`
}

// Locate sets the current position, either from a free-text query or from a
// one-shot device fix.
func (h *SessionHandler) Locate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Log, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Device {
		if _, err := s.LocateFromDevice(r.Context()); err != nil {
			writeError(w, h.Log, errStatus(err), err.Error())
			return
		}
	} else {
		if _, err := s.ResolveCurrent(r.Context(), req.Query); err != nil {
			writeError(w, h.Log, errStatus(err), err.Error())
			return
		}
	}

	writeJSON(w, h.Log, http.StatusOK, s.Snapshot())
}

type destinationRequest struct {
	Query string   `json:"query"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Label string   `json:"label"`
}

// SetDestination installs a destination by query or by explicit coordinate
// and persists it as the owner's last destination.
func (h *SessionHandler) SetDestination(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req destinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Log, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		dest domain.Location
		err  error
	)
	switch {
	case req.Lat != nil && req.Lng != nil:
		var coord domain.Coordinate
		coord, err = domain.NewCoordinate(*req.Lat, *req.Lng)
		if err != nil {
			writeError(w, h.Log, http.StatusBadRequest, err.Error())
			return
		}
		label := req.Label
		if label == "" {
			label = coord.String()
		}
		dest = domain.Location{
			Coordinate: coord,
			Label:      label,
			Timestamp:  time.Now(),
			Source:     domain.SourceGeocodeAPI,
		}
		s.SetDestination(r.Context(), dest)
	case req.Query != "":
		dest, err = s.ResolveDestination(r.Context(), req.Query)
		if err != nil {
			writeError(w, h.Log, errStatus(err), err.Error())
			return
		}
	default:
		writeError(w, h.Log, http.StatusBadRequest, "query or lat/lng required")
		return
	}

	if h.Store != nil {
		if err := h.Store.SaveLast(r.Context(), owner(r), dest); err != nil {
			h.Log.Warn("save destination failed", zap.Error(err))
		}
	}

	writeJSON(w, h.Log, http.StatusOK, s.Snapshot())
}

type navigateRequest struct {
	Tracking string `json:"tracking"`
}

// Navigate starts navigation in the requested tracking mode.
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Log, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch req.Tracking {
	case "gps":
		err = s.StartGPS(r.Context())
	case "manual":
		err = s.StartManual(r.Context())
	default:
		writeError(w, h.Log, http.StatusBadRequest, "tracking must be gps or manual")
		return
	}
	if err != nil {
		writeError(w, h.Log, errStatus(err), err.Error())
		return
	}

	writeJSON(w, h.Log, http.StatusOK, s.Snapshot())
}

// StopNavigation leaves the navigating state.
func (h *SessionHandler) StopNavigation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Stop()
	writeJSON(w, h.Log, http.StatusOK, s.Snapshot())
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// ChangeMode switches the travel mode.
func (h *SessionHandler) ChangeMode(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Log, http.StatusBadRequest, "invalid request body")
		return
	}

	mode, err := domain.ParseTravelMode(req.Mode)
	if err != nil {
		writeError(w, h.Log, http.StatusBadRequest, err.Error())
		return
	}

	s.ChangeMode(r.Context(), mode)
	writeJSON(w, h.Log, http.StatusOK, s.Snapshot())
}
