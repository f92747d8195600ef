package logger

import (
	"github.com/sirupsen/logrus"
)

type Logger struct {
	log *logrus.Logger
}

func New(level string) *Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return &Logger{log: log}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.log.Infof(msg, args...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log.Debugf(msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log.Warnf(msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.log.Errorf(msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log.Fatalf(msg, args...)
}

// WithField returns a logger that tags every entry with the given field.
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{entry: l.log.WithField(key, value)}
}

type Entry struct {
	entry *logrus.Entry
}

func (e *Entry) Info(msg string, args ...interface{}) {
	e.entry.Infof(msg, args...)
}

func (e *Entry) Debug(msg string, args ...interface{}) {
	e.entry.Debugf(msg, args...)
}

func (e *Entry) Warn(msg string, args ...interface{}) {
	e.entry.Warnf(msg, args...)
}

func (e *Entry) Error(msg string, args ...interface{}) {
	e.entry.Errorf(msg, args...)
}
