package constants

const (
	AppName           = "ritual"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/ritual/ritual.db"

	// DefaultKeyringKey is the keyring entry holding the persistent user identity.
	DefaultKeyringKey = "user-identity"

	// DateFormat is the day-key format used for all per-day records (YYYY-MM-DD)
	DateFormat = "2006-01-02"
)
