// Package logger provides the process-wide sugared logger. Build
// tooling output goes to stderr so the native build's own stdout
// parsing is not disturbed.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = newSugaredLogger()

func newSugaredLogger() *zap.SugaredLogger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		logLevel(),
	)

	return zap.New(core).Sugar()
}

func logLevel() zapcore.Level {
	if lvl, err := zapcore.ParseLevel(os.Getenv("PREBUILD_LOG_LEVEL")); err == nil {
		return lvl
	}

	return zapcore.InfoLevel
}

func GetLogger() *zap.SugaredLogger { return sugar }

func Debug(args ...interface{}) { sugar.Debug(args...) }

func Debugf(template string, args ...interface{}) { sugar.Debugf(template, args...) }

func Info(args ...interface{}) { sugar.Info(args...) }

func Infof(template string, args ...interface{}) { sugar.Infof(template, args...) }

func Warnf(template string, args ...interface{}) { sugar.Warnf(template, args...) }

func Error(args ...interface{}) { sugar.Error(args...) }

func Errorf(template string, args ...interface{}) { sugar.Errorf(template, args...) }
