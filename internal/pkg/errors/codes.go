package errors

import "net/http"

const (
	CodeInvalidGeometry        = "INVALID_GEOMETRY"
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeGenerationBackendError = "GENERATION_BACKEND_ERROR"
	CodePlacesProviderError    = "PLACES_PROVIDER_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeDatabaseError          = "DATABASE_ERROR"
	CodeCacheError             = "CACHE_ERROR"
	CodeServiceUnavailable     = "SERVICE_UNAVAILABLE"
	CodeInternalServer         = "INTERNAL_SERVER_ERROR"
)

var (
	ErrInvalidGeometry = New(
		CodeInvalidGeometry,
		"Region geometry is invalid",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	// ErrGenerationBackend - ошибка генерации; Message показывается пользователю как есть
	ErrGenerationBackend = New(
		CodeGenerationBackendError,
		"Sorry, we could not generate an itinerary at this time. Please try again later.",
		http.StatusBadGateway,
	)

	ErrPlacesProvider = New(
		CodePlacesProviderError,
		"Place search provider request failed",
		http.StatusBadGateway,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		CodeDatabaseError,
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		CodeCacheError,
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrServiceUnavailable = New(
		CodeServiceUnavailable,
		"Service dependency unavailable",
		http.StatusServiceUnavailable,
	)

	ErrInternalServer = New(
		CodeInternalServer,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
