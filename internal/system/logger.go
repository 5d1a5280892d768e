package system

import (
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// cliHook echoes Info level and above to the terminal while the full log
// goes to the rotating file.
type cliHook struct {
	levels    []log.Level
	formatter log.Formatter
}

func (h *cliHook) Levels() []log.Level {
	return h.levels
}

func (h *cliHook) Fire(entry *log.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = os.Stderr.Write(line)
	return err
}

// SetupLogger routes JSON records into logPath/wipeframes.log (rotated) and
// mirrors them to stderr. verbose adds Debug records to stderr.
// An empty logPath logs to stderr only.
func SetupLogger(logPath string, verbose bool) {
	levels := []log.Level{log.InfoLevel, log.WarnLevel, log.ErrorLevel, log.FatalLevel, log.PanicLevel}
	if verbose {
		levels = append(levels, log.DebugLevel)
	}
	hook := &cliHook{
		levels:    levels,
		formatter: &log.TextFormatter{DisableTimestamp: true, DisableQuote: true},
	}

	log.SetLevel(log.DebugLevel)
	if logPath == "" {
		log.SetOutput(io.Discard)
		log.AddHook(hook)
		return
	}

	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: time.RFC1123Z,
	})
	log.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(logPath, "wipeframes.log"),
		MaxSize:    5, // in MB
		MaxBackups: 10,
		MaxAge:     30, // in days
		Compress:   true,
	})
	log.AddHook(hook)
}
