package logging

import (
	"github.com/sirupsen/logrus"
)

// New builds a configured logrus logger. Callers pass the instance down
// explicitly; there is no package-level logger.
func New(level, format string) *logrus.Logger {
	logger := logrus.New()

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}
