package errors

// Códigos de erro expostos pela API. Os valores espelham os códigos de
// pkg/apiErrors para que os usecases não dependam da camada HTTP.
const (
	ErrInvalidCredentials    = "AUTH_001"
	ErrUserDisabled          = "AUTH_002"
	ErrUserNotFound          = "AUTH_003"
	ErrInsufficientPrivilege = "AUTH_008"
	ErrUserAlreadyExists     = "AUTH_009"
	ErrMissingRequiredData   = "VAL_002"
	ErrInternalServer        = "SRV_001"
	ErrDatabaseOperation     = "SRV_002"
)
