package core

// Logger is any leveled logging service.
// Implementations may make use of extra args: an error to report,
// a map of extra context values or the acting user.User.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
