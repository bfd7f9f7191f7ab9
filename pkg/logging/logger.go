// Copyright (c) 2026 The Pingpong Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging provides logging functionality for the pinger and the ponger,
// it sets up a default logger (powered by go.uber.org/zap) and allows users to
// replace it with their own by implementing the `Logger` interface and calling
// SetDefaultLoggerAndFlusher before a run starts.
//
// The environment variable `PINGPONG_LOGGING_LEVEL` determines which zap logger level
// will be applied for logging, either by name (debug, info, warn, error) or by the
// integer value of zapcore.Level.
// The environment variable `PINGPONG_LOGGING_FILE` is set to a local file path when
// you want to print logs into a local file, which is rotated by lumberjack.
//
// Nothing in this package is meant to be called from a measurement hot path.
package logging

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Flusher is the callback function which flushes any buffered log entries to the underlying writer.
// It is usually called before the process exits.
type Flusher = func() error

var (
	defaultLogger       Logger
	defaultLoggingLevel Level
	defaultFlusher      Flusher
)

// Level is the alias of zapcore.Level.
type Level = zapcore.Level

const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel = zapcore.DebugLevel
	// InfoLevel is the default logging priority.
	InfoLevel = zapcore.InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel = zapcore.WarnLevel
	// ErrorLevel logs are high-priority.
	ErrorLevel = zapcore.ErrorLevel
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel = zapcore.FatalLevel
)

func init() {
	if lvl := os.Getenv("PINGPONG_LOGGING_LEVEL"); len(lvl) > 0 {
		loggingLevel, err := ParseLevel(lvl)
		if err != nil {
			panic("invalid PINGPONG_LOGGING_LEVEL, " + err.Error())
		}
		defaultLoggingLevel = loggingLevel
	}

	if fileName := os.Getenv("PINGPONG_LOGGING_FILE"); len(fileName) > 0 {
		var err error
		defaultLogger, defaultFlusher, err = CreateLoggerAsLocalFile(fileName, defaultLoggingLevel)
		if err != nil {
			panic("invalid PINGPONG_LOGGING_FILE, " + err.Error())
		}
		return
	}

	core := zapcore.NewCore(getDevEncoder(), zapcore.Lock(os.Stdout), defaultLoggingLevel)
	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	defaultLogger, defaultFlusher = zapLogger.Sugar(), zapLogger.Sync
}

// ParseLevel accepts either a level name or the integer value of a zapcore.Level.
func ParseLevel(s string) (Level, error) {
	if n, err := strconv.ParseInt(s, 10, 8); err == nil {
		return Level(n), nil
	}
	var lvl Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, err
	}
	return lvl, nil
}

type prefixEncoder struct {
	zapcore.Encoder

	prefix  string
	bufPool buffer.Pool
}

func (e *prefixEncoder) Clone() zapcore.Encoder {
	return &prefixEncoder{Encoder: e.Encoder.Clone(), prefix: e.prefix, bufPool: e.bufPool}
}

func (e *prefixEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	logEntry, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer logEntry.Free()

	buf := e.bufPool.Get()
	buf.AppendString(e.prefix)
	buf.AppendString(" ")
	if _, err = buf.Write(logEntry.Bytes()); err != nil {
		buf.Free()
		return nil, err
	}
	return buf, nil
}

func newEncoder(encoderConfig zapcore.EncoderConfig) zapcore.Encoder {
	encoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return &prefixEncoder{
		Encoder: zapcore.NewConsoleEncoder(encoderConfig),
		prefix:  "[pingpong]",
		bufPool: buffer.NewPool(),
	}
}

func getDevEncoder() zapcore.Encoder {
	return newEncoder(zap.NewDevelopmentEncoderConfig())
}

func getProdEncoder() zapcore.Encoder {
	return newEncoder(zap.NewProductionEncoderConfig())
}

// GetDefaultLogger returns the default logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

var setupOnce sync.Once

// SetDefaultLoggerAndFlusher sets the default logger and its flusher.
//
// Note that this function should only be called once at the
// start of the program and not thereafter for the entire runtime,
// otherwise it will only keep the first setup.
func SetDefaultLoggerAndFlusher(logger Logger, flusher Flusher) {
	setupOnce.Do(func() {
		defaultLogger, defaultFlusher = logger, flusher
	})
}

// LogLevel tells what the default logging level is.
func LogLevel() string {
	return defaultLoggingLevel.String()
}

// CreateLoggerAsLocalFile setups the logger by local file path.
func CreateLoggerAsLocalFile(localFilePath string, logLevel Level) (logger Logger, flush func() error, err error) {
	if len(localFilePath) == 0 {
		return nil, nil, errors.New("invalid local logger path")
	}

	// lumberjack.Logger is already safe for concurrent use, so we don't need to lock it.
	lumberJackLogger := &lumberjack.Logger{
		Filename:   localFilePath,
		MaxSize:    100, // megabytes
		MaxBackups: 2,
		MaxAge:     15, // days
	}

	levelEnabler := zap.LevelEnablerFunc(func(level Level) bool {
		return level >= logLevel
	})
	core := zapcore.NewCore(getProdEncoder(), zapcore.AddSync(lumberJackLogger), levelEnabler)
	zapLogger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(ErrorLevel))
	logger = zapLogger.Sugar()
	flush = func() error {
		_ = zapLogger.Sync()
		return lumberJackLogger.Close()
	}
	return
}

// With returns a logger that attaches the key-value pair to every entry,
// the default logger is returned untouched if it does not support fields.
func With(key string, value interface{}) Logger {
	if sl, ok := defaultLogger.(*zap.SugaredLogger); ok {
		return sl.With(key, value)
	}
	return defaultLogger
}

// Cleanup flushes any buffered log entries of the default logger.
func Cleanup() {
	if defaultFlusher != nil {
		_ = defaultFlusher()
	}
}

// Errorf logs messages at ERROR level.
func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

// Logger is used for logging formatted messages.
type Logger interface {
	// Debugf logs messages at DEBUG level.
	Debugf(format string, args ...interface{})
	// Infof logs messages at INFO level.
	Infof(format string, args ...interface{})
	// Warnf logs messages at WARN level.
	Warnf(format string, args ...interface{})
	// Errorf logs messages at ERROR level.
	Errorf(format string, args ...interface{})
	// Fatalf logs messages at FATAL level.
	Fatalf(format string, args ...interface{})
}
