package marionette

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel selects which messages are emitted. Higher levels are more verbose;
// note that info sits above debug.
type LogLevel int

const (
	LogNone    LogLevel = iota // nothing is logged
	LogError                   // errors only
	LogWarning                 // errors and warnings
	LogDebug                   // adds debug output
	LogInfo                    // everything, including per-call tracing
)

// DefaultLogLevel is the level a fresh Runtime starts at.
const DefaultLogLevel = LogWarning

func (l LogLevel) valid() bool {
	return l >= LogNone && l <= LogInfo
}

func (l LogLevel) String() string {
	switch l {
	case LogNone:
		return "none"
	case LogError:
		return "error"
	case LogWarning:
		return "warning"
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
}

// fromZapLevel maps a zap level onto our scale.
func fromZapLevel(l zapcore.Level) LogLevel {
	switch l {
	case zapcore.DebugLevel:
		return LogDebug
	case zapcore.InfoLevel:
		return LogInfo
	case zapcore.WarnLevel:
		return LogWarning
	default:
		return LogError
	}
}

// levelFilter holds the active LogLevel. Shared by every core wrapped from
// the same Runtime.
type levelFilter struct {
	level atomic.Int32
}

func newLevelFilter(l LogLevel) *levelFilter {
	f := &levelFilter{}
	f.set(l)
	return f
}

func (f *levelFilter) set(l LogLevel) { f.level.Store(int32(l)) }

func (f *levelFilter) get() LogLevel { return LogLevel(f.level.Load()) }

// Enabled implements zapcore.LevelEnabler.
func (f *levelFilter) Enabled(l zapcore.Level) bool {
	cur := f.get()
	if cur == LogNone {
		return false
	}
	return fromZapLevel(l) <= cur
}

// levelCore applies a levelFilter on top of any core, so injected cores obey
// SetLogLevel too.
type levelCore struct {
	zapcore.Core
	filter *levelFilter
}

func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.filter.Enabled(l) && c.Core.Enabled(l)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), filter: c.filter}
}

func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.filter.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}

// defaultCore writes human readable lines to stderr. Level gating is left to
// levelCore.
func defaultCore() zapcore.Core {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
}

func newFilteredLogger(core zapcore.Core, filter *levelFilter) *zap.Logger {
	return zap.New(&levelCore{Core: core, filter: filter}).Named("marionette")
}
