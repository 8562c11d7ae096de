package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Scheduling ────────────────────────────────────────────────────
	ErrScheduleConflict  ErrCode = "SCHEDULE_CONFLICT"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"

	// ─── Enrollment ────────────────────────────────────────────────────
	ErrDuplicateEnrollment ErrCode = "DUPLICATE_ENROLLMENT"
	ErrInvalidCapacity     ErrCode = "INVALID_CAPACITY"

	// ─── Metrics ───────────────────────────────────────────────────────
	ErrInvalidGradeData    ErrCode = "INVALID_GRADE_DATA"
	ErrInvalidStudentCount ErrCode = "INVALID_STUDENT_COUNT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrBusy     ErrCode = "RESOURCE_BUSY"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Some fields are invalid."
	case ErrInvalidID:
		return "The ID in the URL is not valid."
	case ErrInvalidPayload:
		return "The request body could not be read."

	// ─── Scheduling ────────────────────────────────────────────────────
	case ErrScheduleConflict:
		return "The time slot overlaps another session for the same teacher or room."
	case ErrInvalidTransition:
		return "This action is not allowed in the current status."

	// ─── Enrollment ────────────────────────────────────────────────────
	case ErrDuplicateEnrollment:
		return "The student is already enrolled or waitlisted in this class."
	case ErrInvalidCapacity:
		return "Capacity must be positive and not below the number of enrolled students."

	// ─── Metrics ───────────────────────────────────────────────────────
	case ErrInvalidGradeData:
		return "The score must be between zero and a positive total score."
	case ErrInvalidStudentCount:
		return "Family discounts apply to 1 to 4 students."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrBusy:
		return "The resource is being changed by another request. Please retry."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please slow down."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."

	default:
		return "An unknown error occurred."
	}
}
