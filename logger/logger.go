package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var zlog *zap.Logger

func init() {
	var err error
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zlog, err = config.Build(zap.AddCallerSkip(1))
	if err != nil {
		log.Fatal(err)
	}
}

func Info(message string, fields ...zap.Field) {
	zlog.Info(message, fields...)
}

func Debug(message string, fields ...zap.Field) {
	zlog.Debug(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	zlog.Error(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	zlog.Warn(message, fields...)
}
