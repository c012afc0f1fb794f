package core

// Logger logs application events, optionally shipping them to an error
// tracker. Trailing args may carry errors, structured data or the logged-in
// identity, depending on the implementation.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
