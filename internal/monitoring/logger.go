package monitoring

import "log"

// Logf is the package-level diagnostic logger shared by the pipeline and
// service layers. It defaults to log.Printf; use SetLogger to redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil argument installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
