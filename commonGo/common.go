package commonGo

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// AttachFileLogger attaches, if required, a log file
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	if !saveLogFile {
		return nil, nil
	}

	argsFileLogging := file.ArgsFileLogging{
		WorkingDir:      workingDir,
		DefaultLogsPath: defaultLogsPath,
		LogFilePrefix:   logFilePrefix,
	}
	logFile, err := file.NewFileLogging(argsFileLogging)
	if err != nil {
		return nil, fmt.Errorf("%w creating a log file", err)
	}

	log.Debug("attached file logger", "path", defaultLogsPath, "prefix", logFilePrefix)

	return logFile, nil
}

// ReadEnvFile loads the .env file and fills the provided maps. Every key of required must be set,
// keys of optional keep their current value when missing.
func ReadEnvFile(envFile string, required map[string]string, optional map[string]string) error {
	err := godotenv.Load(envFile)
	if err != nil {
		return err
	}

	for k := range required {
		val := os.Getenv(k)
		if len(val) == 0 {
			return fmt.Errorf("%s is not set in the .env file", k)
		}

		required[k] = val
	}

	for k := range optional {
		val := os.Getenv(k)
		if len(val) > 0 {
			optional[k] = val
		}
	}

	return nil
}

// CronJob calls the provided handler right away, then every timeToCall. It blocks until the context is done and
// the last handler call returned
func CronJob(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	timer := time.NewTimer(timeToCall)
	defer timer.Stop()

	handler(ctx)

	for {
		select {
		case <-timer.C:
			handler(ctx)
			timer.Reset(timeToCall)
		case <-ctx.Done():
			return
		}
	}
}
