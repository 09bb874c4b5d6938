// Package logutil provides logging utilities.
//
// All loggers returned by GetLogger share one output, which discards
// everything until SetOutput or SetOutputFile is called. Loggers may be
// created before the output is set, typically as package-level variables.
package logutil

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level = zap.NewAtomicLevelAt(zap.InfoLevel)

	mu   sync.RWMutex
	out  zapcore.Core = zapcore.NewNopCore()
	file *os.File
)

// GetLogger gets a logger with the given name.
func GetLogger(name string) *zap.Logger {
	return zap.New(sharedCore{}).Named(name)
}

// SetLevel sets the minimum level of all loggers. It accepts the level names
// of zap, such as "debug" and "warn".
func SetLevel(name string) error {
	return level.UnmarshalText([]byte(name))
}

// SetOutput redirects the output of all loggers to the given writer. Entries
// are written as console text if the writer is a terminal, and as JSON lines
// otherwise.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(w)
	closeFile()
}

// SetOutputFile redirects the output of all loggers to the file at the given
// path, appending to it. If the path is empty, logs are discarded.
func SetOutputFile(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if path == "" {
		out = zapcore.NewNopCore()
		closeFile()
		return nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	setOutput(f)
	closeFile()
	file = f
	return nil
}

func setOutput(w io.Writer) {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(cfg)
	}
	out = zapcore.NewCore(enc, zapcore.AddSync(w), level)
}

func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}

func current() zapcore.Core {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// sharedCore forwards to whatever output is current when an entry is
// written.
type sharedCore struct {
	fields []zapcore.Field
}

func (c sharedCore) Enabled(l zapcore.Level) bool { return level.Enabled(l) }

func (c sharedCore) With(fields []zapcore.Field) zapcore.Core {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	return sharedCore{append(append(all, c.fields...), fields...)}
}

func (c sharedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c sharedCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return current().With(c.fields).Write(ent, fields)
}

func (c sharedCore) Sync() error { return current().Sync() }
