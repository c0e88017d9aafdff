package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/navigation"
)

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("encode response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, log *zap.Logger, status int, msg string) {
	writeJSON(w, log, status, map[string]string{"error": msg})
}

// errStatus maps engine error taxonomy onto HTTP statuses.
func errStatus(err error) int {
	var gerr *domain.GeocodeError
	if errors.As(err, &gerr) {
		switch gerr.Kind {
		case domain.GeocodeInvalidInput:
			return http.StatusBadRequest
		case domain.GeocodeNotFound:
			return http.StatusNotFound
		case domain.GeocodeRateLimited:
			return http.StatusTooManyRequests
		default:
			return http.StatusBadGateway
		}
	}

	var perr *domain.PositionError
	if errors.As(err, &perr) {
		switch perr.Kind {
		case domain.PositionPermissionDenied:
			return http.StatusForbidden
		case domain.PositionTimeout:
			return http.StatusGatewayTimeout
		default:
			return http.StatusServiceUnavailable
		}
	}

	if errors.Is(err, navigation.ErrNoLocation) || errors.Is(err, navigation.ErrNoDestination) {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
