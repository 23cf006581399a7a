package gateway

import "net/http"

// Error codes cover the complete vocabulary of the gateway:
// 400, 401, 403, 404 and 500.
const (
	ErrorApiKeyInvalid     = "API_KEY_INVALID"
	ErrorFeatureNotAllowed = "FEATURE_NOT_ALLOWED"
	ErrorQueryRequired     = "QUERY_REQUIRED"
	ErrorHerbNotFound      = "HERB_NOT_FOUND"
	ErrorEndpointNotFound  = "ENDPOINT_NOT_FOUND"
	ErrorInternal          = "INTERNAL_ERROR"
)

// ApiError is an expected request outcome. Handlers return it instead
// of panicking for caller-attributable conditions; only genuinely
// unexpected failures travel as plain errors.
type ApiError struct {
	Code    string
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func (e *ApiError) StatusCode() int {
	switch e.Code {
	case ErrorQueryRequired:
		return http.StatusBadRequest
	case ErrorApiKeyInvalid:
		return http.StatusUnauthorized
	case ErrorFeatureNotAllowed:
		return http.StatusForbidden
	case ErrorHerbNotFound, ErrorEndpointNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func featureNotAllowedError() *ApiError {
	return &ApiError{
		Code:    ErrorFeatureNotAllowed,
		Message: "Your plan does not include access to this endpoint",
	}
}

func herbNotFoundError() *ApiError {
	return &ApiError{
		Code:    ErrorHerbNotFound,
		Message: "Herb not found",
	}
}

func endpointNotFoundError() *ApiError {
	return &ApiError{
		Code:    ErrorEndpointNotFound,
		Message: "Endpoint not found",
	}
}

func queryRequiredError() *ApiError {
	return &ApiError{
		Code:    ErrorQueryRequired,
		Message: "Query parameter is required",
	}
}
