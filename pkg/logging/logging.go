package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"roombooking/pkg/config"
)

// Setup configures the global logrus logger. Prod defaults to JSON output;
// LOG_FORMAT overrides either way.
func Setup(cfg config.Config) {
	logrus.SetOutput(os.Stdout)

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if format == "" && cfg.IsProd() {
		format = "json"
	}
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
