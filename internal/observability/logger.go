// Package observability configures the process-wide zap logger.
//
// Console output is human-readable; when a log file is configured a second
// JSON core is added behind lumberjack rotation. The logger is global on
// purpose: the engine runs one portal session per process and threading a
// logger through every chromedp helper buys nothing.
package observability

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var once sync.Once

// Init sets up the global zap logger. Safe to call more than once; only the
// first call takes effect.
func Init(level, logFile string) {
	once.Do(func() {
		lvl := zap.NewAtomicLevel()
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl.SetLevel(zap.InfoLevel)
		}

		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stdout),
			lvl,
		)
		cores := []zapcore.Core{consoleCore}

		if logFile != "" {
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				fileWriter,
				lvl,
			)
			cores = append(cores, fileCore)
		}

		logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
		zap.ReplaceGlobals(logger)
		zap.RedirectStdLog(logger)
	})
}

// L returns the global logger.
func L() *zap.Logger {
	return zap.L()
}
