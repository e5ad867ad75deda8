package logger

// Logger is the logging surface used across the engine. Implementations
// live under infra/logger so domain packages stay free of log backends.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs at debug level with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	// Infow logs at info level with structured fields. Batch and delivery
	// records go through here so they stay machine-parseable.
	Infow(msg string, fields map[string]any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
