package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
	TRACE
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

var (
	nullWriter   = &NullWriter{}
	currentLevel = ERROR
	Info         *log.Logger
	Warn         *log.Logger
	Error        *log.Logger
	Debug        *log.Logger
	Trace        *log.Logger
)

func StringToLogLevel(value string) LogLevel {
	switch strings.ToLower(value) {
	case "error":
		return ERROR
	case "warn":
		return WARN
	case "info":
		return INFO
	case "debug":
		return DEBUG
	case "trace":
		return TRACE
	}
	log.Printf("Invalid log level: '%s'. Returning INFO", value)
	return INFO
}

func (s LogLevel) String() string {
	switch s {
	case ERROR:
		return "ERROR"
	case WARN:
		return "WARN"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	case TRACE:
		return "TRACE"
	}
	return "UNKNOWN"
}

type NullWriter struct {
	io.Writer
}

func (s *NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func init() {
	initializeWith(ERROR, nullWriter, nullWriter)
}

// Initialize enables every logger up to and including logLevel. Errors go to
// stderr and everything else to stdout.
func Initialize(logLevel LogLevel) {
	log.Printf("Initialize loggers: '%s'", logLevel.String())
	initializeWith(logLevel, os.Stderr, os.Stdout)
}

// InitializeWithWriter routes every enabled logger to w.
func InitializeWithWriter(logLevel LogLevel, w io.Writer) {
	initializeWith(logLevel, w, w)
}

func initializeWith(logLevel LogLevel, errorWriter io.Writer, writer io.Writer) {
	currentLevel = logLevel
	Error = log.New(writerFor(logLevel, ERROR, errorWriter), "ERROR: ", logFlags)
	Warn = log.New(writerFor(logLevel, WARN, writer), "WARN:  ", logFlags)
	Info = log.New(writerFor(logLevel, INFO, writer), "INFO:  ", logFlags)
	Debug = log.New(writerFor(logLevel, DEBUG, writer), "DEBUG: ", logFlags)
	Trace = log.New(writerFor(logLevel, TRACE, writer), "TRACE: ", logFlags)
}

func writerFor(enabled LogLevel, level LogLevel, w io.Writer) io.Writer {
	if enabled >= level {
		return w
	}
	return nullWriter
}

// IsLogLevel reports whether messages of the given level are written. Use it
// to skip building expensive trace output.
func IsLogLevel(level LogLevel) bool {
	return currentLevel >= level
}
