package diagnostic

import (
	"go.uber.org/zap"
)

// LoggingSink records diagnostics and mirrors each one to a zap logger.
type LoggingSink struct {
	Diagnostics

	logger *zap.Logger
}

var _ Sink = (*LoggingSink)(nil)

// NewLoggingSink creates a sink that logs through l. A nil logger is replaced
// by a no-op logger.
func NewLoggingSink(l *zap.Logger) *LoggingSink {
	if l == nil {
		l = zap.NewNop()
	}

	return &LoggingSink{logger: l}
}

func fields(code, typeName, member string) []zap.Field {
	fs := []zap.Field{zap.String("code", code)}
	if typeName != "" {
		fs = append(fs, zap.String("type", typeName))
	}

	if member != "" {
		fs = append(fs, zap.String("member", member))
	}

	return fs
}

func entryFields(d Diagnostic) []zap.Field {
	fs := fields(d.Code, d.Type, d.Member)
	if len(d.Suggestions) > 0 {
		fs = append(fs, zap.Strings("suggestions", d.Suggestions))
	}

	return fs
}

// LogError implements Sink.
func (s *LoggingSink) LogError(code, message, typeName, member string) {
	s.AddError(code, message, typeName, member)
	s.logger.Error(message, fields(code, typeName, member)...)
}

// LogWarning implements Sink.
func (s *LoggingSink) LogWarning(code, message, typeName, member string) {
	s.AddWarning(code, message, typeName, member)
	s.logger.Warn(message, fields(code, typeName, member)...)
}

// LogMessage implements Sink.
func (s *LoggingSink) LogMessage(code, message, typeName, member string) {
	s.AddInfo(code, message, typeName, member)
	s.logger.Debug(message, fields(code, typeName, member)...)
}

// Replay records diagnostics collected by another sink and logs each one at
// its own severity. Suggestions are kept.
func (s *LoggingSink) Replay(other Diagnostics) {
	s.Merge(other)

	for _, d := range other.Errors {
		s.logger.Error(d.Message, entryFields(d)...)
	}

	for _, d := range other.Warnings {
		s.logger.Warn(d.Message, entryFields(d)...)
	}

	for _, d := range other.Infos {
		s.logger.Debug(d.Message, entryFields(d)...)
	}
}

// Collected returns the diagnostics recorded so far.
func (s *LoggingSink) Collected() Diagnostics {
	return s.Diagnostics
}
