package mp4tag

// Logger is the structured logging hook a Context can be given. Its shape
// mirrors github.com/robinjoseph08/golib/logger's Info/Warn (the call
// pattern used throughout the teacher's services, e.g. pkg/worker/scan.go's
// jobLog.Warn(msg, logger.Data{...})), without binding this package to that
// module's exact exported type: a library with no server or CLI surface of
// its own has no place importing an application logger directly, and any
// caller that already depends on golib/logger can adapt it to this
// interface in one line. See DESIGN.md for the full reasoning.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// nopLogger discards everything. It is the default for a Context that
// doesn't set an explicit Logger, since this package never logs on its own
// initiative beyond these optional, caller-visible hooks.
type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{}) {}
func (nopLogger) Warn(string, map[string]interface{}) {}

var defaultLogger Logger = nopLogger{}
