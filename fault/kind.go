package fault

// Kind identifies a failure category. Values are grouped into numeric
// bands (1xx general, 2xx connection, 3xx command, 4xx resource,
// 5xx validation) and are stable across releases: they appear in
// structured logs and must not be renumbered.
type Kind int

const (
	// General errors (1xx)
	KindUnknown       Kind = 100
	KindInternal      Kind = 101
	KindConfiguration Kind = 102

	// Connection errors (2xx)
	KindConnectionFailed     Kind = 200
	KindTimeout              Kind = 201
	KindAuthenticationFailed Kind = 202
	KindNodeUnreachable      Kind = 203

	// Command errors (3xx)
	KindCommandFailed    Kind = 300
	KindCommandNotFound  Kind = 301
	KindInvalidArguments Kind = 302
	KindPermissionDenied Kind = 303
	KindReadOnly         Kind = 304

	// Resource errors (4xx)
	KindResourceNotFound    Kind = 400
	KindResourceUnavailable Kind = 401
	KindResourceBusy        Kind = 402

	// Validation errors (5xx)
	KindValidationFailed Kind = 500
	KindInvalidConfig    Kind = 501
	KindSchemaValidation Kind = 502
)

var kindNames = map[Kind]string{
	KindUnknown:              "UNKNOWN",
	KindInternal:             "INTERNAL_ERROR",
	KindConfiguration:        "CONFIGURATION_ERROR",
	KindConnectionFailed:     "CONNECTION_FAILED",
	KindTimeout:              "TIMEOUT",
	KindAuthenticationFailed: "AUTHENTICATION_FAILED",
	KindNodeUnreachable:      "NODE_UNREACHABLE",
	KindCommandFailed:        "COMMAND_FAILED",
	KindCommandNotFound:      "COMMAND_NOT_FOUND",
	KindInvalidArguments:     "INVALID_ARGUMENTS",
	KindPermissionDenied:     "PERMISSION_DENIED",
	KindReadOnly:             "READONLY_VIOLATION",
	KindResourceNotFound:     "RESOURCE_NOT_FOUND",
	KindResourceUnavailable:  "RESOURCE_UNAVAILABLE",
	KindResourceBusy:         "RESOURCE_BUSY",
	KindValidationFailed:     "VALIDATION_FAILED",
	KindInvalidConfig:        "INVALID_CONFIG",
	KindSchemaValidation:     "SCHEMA_VALIDATION_FAILED",
}

// String returns the stable symbolic name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Kinds returns every defined kind. The slice is freshly allocated on
// each call; callers may reorder it freely.
func Kinds() []Kind {
	ks := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		ks = append(ks, k)
	}
	return ks
}
