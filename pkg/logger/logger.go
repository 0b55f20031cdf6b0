package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Init must run before first use.
var Log *logrus.Logger

// Init builds the global logger from LOG_LEVEL and LOG_FORMAT.
// Call it once from main (or TestMain).
func Init() {
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
	}
	Setup(level, os.Getenv("LOG_FORMAT"), os.Stdout)
}

// Setup configures the global logger explicitly.
// Unknown levels fall back to info; format "json" selects the JSON formatter.
func Setup(level, format string, out io.Writer) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(out)
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	if Log == nil {
		Init()
	}
	return Log.WithField("component", name)
}
