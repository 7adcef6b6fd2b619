// package logger holds the engine-wide structured logger. Log defaults to a
// nop logger so library consumers and tests run silent; applications call Init
// once at startup to enable output.
package logger

import (
	"go.uber.org/zap"
)

// Log is the shared logger for all engine packages.
var Log = zap.NewNop()

// Init replaces the nop logger with a real one. Pass debug=true for a
// development config (human-readable, debug level), false for production
// (JSON, info level).
//
// Parameters:
//   - debug: true for a development logger, false for production
//
// Returns:
//   - error: error if the logger could not be built
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes any buffered log entries. Applications should defer this
// after Init.
func Sync() {
	_ = Log.Sync()
}
