package core

// Logger logs messages along with optional context args (errors, extras, requests).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Actor is the person a logged event is about (a student or a faculty member).
type Actor struct {
	ID    string
	Name  string
	Email string
}
