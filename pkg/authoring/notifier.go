package authoring

import "log"

// Level grades a user-facing notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier receives the notices the dashboard would show as toasts: one per
// failure at the most specific granularity available (field, module, or the
// whole operation), plus the final success notice.
type Notifier interface {
	Notify(level Level, scope, message string)
}

type logNotifier struct{}

func (logNotifier) Notify(level Level, scope, message string) {
	log.Printf("[%s] %s: %s", level, scope, message)
}
