package logger

import (
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"clickupai/common"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	logFilePrefix   = "clickupai-"
	logFileSuffix   = ".log"
	maxLogFileCount = 7
)

var once sync.Once

var log zerolog.Logger

func GetLogLevel() zerolog.Level {
	logLevel, err := strconv.Atoi(os.Getenv("CLICKUPAI_LOG_LEVEL"))
	if err != nil {
		logLevel = int(zerolog.InfoLevel) // default to INFO
	}

	return zerolog.Level(logLevel)
}

// Get returns the process logger: console output plus a daily rotating file
// in the state home when one can be created.
func Get() zerolog.Logger {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}

		var output io.Writer = consoleWriter

		stateHome, err := common.GetStateHome()
		if err == nil {
			fileWriter, err := common.NewDailyRotatingWriter(stateHome, logFilePrefix, logFileSuffix, maxLogFileCount)
			if err == nil {
				output = zerolog.MultiLevelWriter(consoleWriter, fileWriter)
			}
		}

		log = New(output)
	})

	return log
}

// New builds a logger writing to output with the configured level and build
// metadata fields.
func New(output io.Writer) zerolog.Logger {
	var gitRevision, goVersion string
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		goVersion = buildInfo.GoVersion
		for _, v := range buildInfo.Settings {
			if v.Key == "vcs.revision" {
				gitRevision = v.Value
				break
			}
		}
	}

	return zerolog.New(output).
		Level(GetLogLevel()).
		With().
		Timestamp().
		Str("git_revision", gitRevision).
		Str("go_version", goVersion).
		Logger()
}
