package truststore

// Logger interface used to log information
type Logger interface {
	Printf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Printf(format string, v ...interface{}) {}
