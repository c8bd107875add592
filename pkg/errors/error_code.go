package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeInvalidParameter     ErrorCode = 101
	ErrCodeVersionMismatch      ErrorCode = 102
	ErrCodeUnsupportedFormat    ErrorCode = 103

	// Input errors (200-299)
	ErrCodeFileNotFound    ErrorCode = 200
	ErrCodeParseFailed     ErrorCode = 201
	ErrCodeReadFailed      ErrorCode = 202
	ErrCodeMissingColumn   ErrorCode = 203
	ErrCodeDuplicateColumn ErrorCode = 204

	// Output errors (300-399)
	ErrCodeWriteFailed ErrorCode = 300

	// Run errors (900-999)
	ErrCodeCanceled ErrorCode = 900
)

// Kind groups error codes into the failure kinds reported by the converter.
type Kind string

const (
	KindUnknown      Kind = "Unknown"
	KindConfig       Kind = "ConfigError"
	KindFileNotFound Kind = "FileNotFound"
	KindParse        Kind = "ParseError"
	KindWrite        Kind = "WriteError"
	KindCanceled     Kind = "Canceled"
)

// Kind returns the failure kind the code belongs to.
func (c ErrorCode) Kind() Kind {
	switch {
	case c == ErrCodeFileNotFound:
		return KindFileNotFound
	case c >= 100 && c < 200:
		return KindConfig
	case c >= 200 && c < 300:
		return KindParse
	case c >= 300 && c < 400:
		return KindWrite
	case c == ErrCodeCanceled:
		return KindCanceled
	default:
		return KindUnknown
	}
}
