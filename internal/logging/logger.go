// Package logging provides the logging abstraction used across betterment-ynab.
// Packages depend on the Logger interface; the logrus-backed adapter is wired
// in by the container, and MockLogger captures entries in tests.
package logging

// Logger is the structured logger handed to every component.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err.
	WithError(err error) Logger

	// WithField returns a child logger carrying one field.
	WithField(key string, value interface{}) Logger

	// WithFields returns a child logger carrying several fields.
	WithFields(fields ...Field) Logger

	// Fatal logs and exits the process.
	Fatal(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}
