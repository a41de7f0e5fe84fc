package localizer

import (
	"context"
	"log/slog"
)

// LevelTrace is the level of protocol events. It sits right above info so
// that a run can keep protocol events while dropping debug output.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a protocol event.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
