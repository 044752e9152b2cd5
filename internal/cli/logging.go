package cli

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger returns the diagnostics logger: debug level with --verbose,
// warnings only otherwise.
func newLogger(verbose bool, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
