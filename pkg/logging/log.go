package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var defaultLog *logrus.Logger

// Diagnostics go to stderr, the data rows own stdout.
func new() *(logrus.Logger) {
	var log = logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	return log
}

func init() {
	defaultLog = new()
}

// SetDebug also reports per-run exit codes and durations.
func SetDebug() {
	SetLevel(defaultLog, logrus.DebugLevel)
}

// SetInfo restores the default level.
func SetInfo() {
	SetLevel(defaultLog, logrus.InfoLevel)
}

// SetError keeps only errors, which still include abnormal terminations
// and exec failures of the measured command.
func SetError() {
	SetLevel(defaultLog, logrus.ErrorLevel)
}

// SetLevel - Provided logger, set the log level
func SetLevel(logger *logrus.Logger, level logrus.Level) {
	logger.SetLevel(level)
}

// SetOutput redirects diagnostics, e.g. to capture them in tests.
func SetOutput(w io.Writer) {
	defaultLog.SetOutput(w)
}

func Debug(args ...interface{}) {
	defaultLog.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	defaultLog.Debugf(format, args...)
}

// Error is for failures the operator has to see, whatever the level.
func Error(args ...interface{}) {
	defaultLog.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	defaultLog.Errorf(format, args...)
}

func Info(args ...interface{}) {
	defaultLog.Info(args...)
}

func Infof(format string, args ...interface{}) {
	defaultLog.Infof(format, args...)
}

func Warn(args ...interface{}) {
	defaultLog.Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	defaultLog.Warnf(format, args...)
}
