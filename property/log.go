package property

import "log/slog"

var log = slog.Default()

// SetLogger replaces the logger used for diagnostics. Nil restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	log = l
}
