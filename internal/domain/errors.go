package domain

import "fmt"

// GeocodeErrorKind distinguishes the ways free-text resolution can fail.
type GeocodeErrorKind int

const (
	GeocodeInvalidInput GeocodeErrorKind = iota
	GeocodeNotFound
	GeocodeRateLimited
	GeocodeServiceUnavailable
)

func (k GeocodeErrorKind) String() string {
	switch k {
	case GeocodeInvalidInput:
		return "invalid_input"
	case GeocodeNotFound:
		return "not_found"
	case GeocodeRateLimited:
		return "rate_limited"
	case GeocodeServiceUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

// GeocodeError is the typed failure of Geocoder.Resolve. Callers decide
// whether to retry with refined input; nothing retries automatically.
type GeocodeError struct {
	Kind  GeocodeErrorKind
	Query string
	Err   error
}

func (e *GeocodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocode %q: %s: %v", e.Query, e.Kind, e.Err)
	}
	return fmt.Sprintf("geocode %q: %s", e.Query, e.Kind)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// PositionErrorKind distinguishes device-location failures.
type PositionErrorKind int

const (
	PositionPermissionDenied PositionErrorKind = iota
	PositionTimeout
	PositionUnavailable
)

func (k PositionErrorKind) String() string {
	switch k {
	case PositionPermissionDenied:
		return "permission_denied"
	case PositionTimeout:
		return "timeout"
	case PositionUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// PositionError is surfaced by the position source; it is never retried
// automatically and never changes the navigation state by itself.
type PositionError struct {
	Kind PositionErrorKind
	Err  error
}

func (e *PositionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("position: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("position: %s", e.Kind)
}

func (e *PositionError) Unwrap() error { return e.Err }

// RouteErrorKind distinguishes routing failures.
type RouteErrorKind int

const (
	RouteNoPath RouteErrorKind = iota
	RouteProviderError
)

func (k RouteErrorKind) String() string {
	switch k {
	case RouteNoPath:
		return "no_path"
	case RouteProviderError:
		return "provider_error"
	default:
		return "unknown"
	}
}

// RouteError is the typed failure of RouteCalculator.Compute. On failure the
// previous Route is retained; a transient failure never clears a valid route.
type RouteError struct {
	Kind RouteErrorKind
	Err  error
}

func (e *RouteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("route: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("route: %s", e.Kind)
}

func (e *RouteError) Unwrap() error { return e.Err }
