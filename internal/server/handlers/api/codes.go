package api

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeAccessDenied   = "E_ACCESS_DENIED"   // access denied

	// Document errors
	CodeDocumentNotFound = "E_DOCUMENT_NOT_FOUND" // the referenced document could not be found.
	CodeValidationFailed = "E_VALIDATION_FAILED"  // input failed schema constraints.

	// File errors
	CodeFileNotFound     = "E_FILE_NOT_FOUND"               // the referenced file could not be found.
	CodeFileInvalidID    = "E_FILE_INVALID_ID"              // the file identifier is malformed.
	CodeFileTooLarge     = "E_FILE_TOO_LARGE"               // the upload exceeds the configured ceiling.
	CodeFileUploadFailed = "E_FILE_UPLOAD_OPERATION_FAILED" // a failure while storing an uploaded file.
	CodeFileGetFailed    = "E_FILE_GET_OPERATION_FAILED"    // a failure while streaming a stored file.
	CodeFileDeleteFailed = "E_FILE_DELETE_OPERATION_FAILED" // a failure while deleting a stored file.

	// Contact errors
	CodeContactFailed = "E_CONTACT_FAILED" // a failure while recording a contact inquiry.
)
