package oci8

import (
	"fmt"

	"gopkg.in/inconshreveable/log15.v2"
)

// Log is the package logger. Everything is discarded by default;
// install a handler to see bind/execute/fetch traces.
var Log = log15.New("lib", "oci8")

func init() {
	Log.SetHandler(log15.DiscardHandler())
}

// IsDebug enables the cheap printf-style traces below.
var IsDebug bool

func debug(format string, args ...interface{}) {
	if IsDebug {
		Log.Debug(fmt.Sprintf(format, args...))
	}
}
