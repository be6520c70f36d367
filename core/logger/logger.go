package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Message names written by the shell.
const (
	MsgCommand    = "command"
	MsgAssignment = "assignment"
	MsgStart      = "shell started"
	MsgStop       = "shell stopped"
)

// New creates a JSON lines logger writing entries at or above level to w.
func New(w io.Writer, level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core), nil
}

// Open creates a logger appending to the file at path. An empty path gives a
// logger that discards everything. The returned function flushes the logger
// and closes the file.
func Open(path, level string) (*zap.Logger, func() error, error) {
	if path == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}

	fd, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	log, err := New(fd, level)
	if err != nil {
		fd.Close()
		return nil, nil, err
	}

	return log, func() error {
		_ = log.Sync()
		return fd.Close()
	}, nil
}
