// Package logging configures the process logger. Components receive a
// logrus.FieldLogger at construction and tag their entries with fields;
// this package only decides level and format once, at startup.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000"

// New builds a configured logger. level accepts the logrus level names
// (trace, debug, info, warn, error); json switches to structured output
// for log collectors.
func New(level string, json bool) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(parsed)
	if json {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableSorting:  true,
		})
	}
	return log, nil
}
