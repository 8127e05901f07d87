// Package logging provides the node's console logger: a zap logger
// configured to print elapsed time since the node started instead of a
// wall-clock timestamp, so each line reads "# HH:MM:SS" followed by a tab
// and the event.
package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger configured for the node's elapsed-time console
// format.
type Logger struct {
	zl    *zap.Logger
	start time.Time
}

// New builds a Logger whose clock starts now, and immediately announces
// selfAddr the way a node reports its own address on startup.
func New(selfAddr string) *Logger {
	start := time.Now()

	cfg := zapcore.EncoderConfig{
		MessageKey:  "msg",
		TimeKey:     "t",
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeTime: func(_ time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(elapsed(start))
		},
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(os.Stdout),
		zapcore.DebugLevel,
	)

	l := &Logger{zl: zap.New(core), start: start}
	l.Event(fmt.Sprintf("My address is %q", selfAddr))
	return l
}

func elapsed(start time.Time) string {
	d := time.Since(start)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("# %02d:%02d:%02d", h, m, s)
}

// Event logs a plain informational line.
func (l *Logger) Event(msg string) {
	l.zl.Info(msg)
}

// Error logs msg together with the error that caused it.
func (l *Logger) Error(msg string, err error) {
	l.zl.Error(msg, zap.Error(err))
}

// Sync flushes any buffered log output.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}
