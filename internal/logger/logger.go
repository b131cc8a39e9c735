package logger

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gemward/gemward/internal/printer"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level string    // "debug","info","warn","error"
	JSON  bool      // JSON output (CI)
	Out   io.Writer // default os.Stdout
}

var (
	mu       sync.RWMutex
	zlog     *zap.SugaredLogger
	out      io.Writer = os.Stdout
	p        *printer.ColorPrinter
	curLevel = zapcore.InfoLevel
	ready    atomic.Bool
)

// Configure sets up the global logger.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if opts.Out != nil {
		out = opts.Out
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.LevelKey = ""
	encCfg.CallerKey = ""
	encCfg.MessageKey = "msg"

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	}

	curLevel = parseLevel(opts.Level)
	core := zapcore.NewCore(enc, zapcore.AddSync(out), curLevel)
	zlog = zap.New(core).Sugar()

	if p == nil {
		p = printer.NewColorPrinter()
	}

	ready.Store(true)
}

// SetOutput replaces the logger writer (use io.Discard in tests).
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	Configure(Options{Level: curLevel.String(), Out: w})
}

// UseTestMode silences everything below error level during tests.
func UseTestMode() {
	Configure(Options{Level: "error", Out: io.Discard})
}

// Out returns the current output writer (for tables and progress output).
func Out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

func Info(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Infof(p.Info("✨ "+msg, args...))
	mu.RUnlock()
}

func Success(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Infof(p.Success("✅ "+msg, args...))
	mu.RUnlock()
}

func LogError(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Errorf(p.Error("❌ "+msg, args...))
	mu.RUnlock()
}

func Warn(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Warnf(p.Warning("⚠️ "+msg, args...))
	mu.RUnlock()
}

func Debug(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Debugf(p.Debug("🛠️ "+msg, args...))
	mu.RUnlock()
}

// ---- Tables ----

func CreateTable(headers []string) *tablewriter.Table {
	mu.RLock()
	defer mu.RUnlock()
	t := tablewriter.NewTable(out)
	t.Header(headers)
	return t
}

// ---- internals ----

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func ensureReady() bool {
	if !ready.Load() {
		Configure(Options{})
	}
	return zlog != nil && p != nil
}
