package transitlive

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// InitLogging configures the process-wide logger from the loaded config.
func InitLogging(cfg AppConfig) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(logLevel(cfg.LogLevel))
}

func logLevel(s string) log.Level {
	switch s {
	case "DEBUG":
		return log.DebugLevel
	case "INFO":
		return log.InfoLevel
	case "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	}
	return log.InfoLevel
}
