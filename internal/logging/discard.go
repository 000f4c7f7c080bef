package logging

// Discard is a Logger that drops every line. Useful as a construction-time default in tests
// that don't care about log output.
var Discard Logger = discard{}

type discard struct{}

func (discard) Debugf(format string, v ...interface{}) {}
func (discard) Infof(format string, v ...interface{})  {}
func (discard) Warnf(format string, v ...interface{})  {}
func (discard) Errorf(format string, v ...interface{}) {}
