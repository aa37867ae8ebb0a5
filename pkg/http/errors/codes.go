package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"

	// Account errors
	ErrCodeRegistrationFailed  = "registration_failed"
	ErrCodeLoginFailed         = "login_failed"
	ErrCodeRefreshFailed       = "refresh_failed"
	ErrCodeProfileUpdateFailed = "profile_update_failed"
	ErrCodeUsernameTaken       = "username_taken"

	// Question errors
	ErrCodeQuestionNotFound    = "question_not_found"
	ErrCodeInvalidQuestionID   = "invalid_question_id"
	ErrCodeQuestionFetchFailed = "question_fetch_failed"
	ErrCodeStatsFetchFailed    = "stats_fetch_failed"

	// Import/export errors
	ErrCodeInvalidFormat   = "invalid_format"
	ErrCodeImportFailed    = "import_failed"
	ErrCodeExportFailed    = "export_failed"
	ErrCodeImportQueueFull = "import_queue_full"
	ErrCodeJobNotFound     = "import_job_not_found"
	ErrCodePayloadTooLarge = "payload_too_large"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"

	// OAuth errors
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthStartFailed    = "oauth_start_failed"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"
)
