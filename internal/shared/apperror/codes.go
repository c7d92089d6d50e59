package apperror

const (
	// Client errors (4xx)
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidState       = "INVALID_STATE"
	CodePreconditionFailed = "PRECONDITION_FAILED"
	CodeNoActiveSession    = "NO_ACTIVE_SESSION"
	CodeRemoteRejected     = "REMOTE_REJECTED"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternalError   = "INTERNAL_ERROR"
	CodeUpstreamFailure = "UPSTREAM_FAILURE"
)
