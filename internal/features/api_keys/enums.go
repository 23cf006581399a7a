package api_keys

type ApiKeyStatus string

const (
	ApiKeyStatusActive   ApiKeyStatus = "ACTIVE"
	ApiKeyStatusRevoked  ApiKeyStatus = "REVOKED"
	ApiKeyStatusNotFound ApiKeyStatus = "NOT_FOUND"
)
