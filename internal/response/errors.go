package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Marksheet schemas ─────────────────────────────────────────────
	ErrInvalidSchema  ErrCode = "INVALID_SCHEMA"
	ErrDuplicateKey   ErrCode = "DUPLICATE_KEY"
	ErrSchemaMismatch ErrCode = "SCHEMA_NOT_IN_CLASS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound            ErrCode = "NOT_FOUND"
	ErrConstraintViolation ErrCode = "CONSTRAINT_VIOLATION"

	// ─── Backup ────────────────────────────────────────────────────────
	ErrInvalidBackup ErrCode = "INVALID_BACKUP_FORMAT"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrStorage  ErrCode = "STORAGE_ERROR"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Marksheet schemas ─────────────────────────────────────────────
	case ErrInvalidSchema:
		return "The marksheet schema is malformed."
	case ErrDuplicateKey:
		return "Two inputs of the marksheet schema map to the same key."
	case ErrSchemaMismatch:
		return "The marksheet schema does not belong to this class."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConstraintViolation:
		return "The record refers to data that does not exist."

	// ─── Backup ────────────────────────────────────────────────────────
	case ErrInvalidBackup:
		return "The file is not a valid export. Nothing was changed."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrStorage:
		return "The database could not complete the operation. Nothing was saved."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
