// Package diagnostics is the engine's approximation/precision-loss log
// channel (spec.md §7/§4.9): a thin, leveled sink built on the same
// commonlog package the teacher uses to drive the LSP server's log
// level, plus a colorized pretty-printer for AbstractValue trees.
//
// It does not import internal/absval, even though its printer renders
// AbstractValue-shaped data, so that absval can call back into it
// through a function variable (absval.ApproxLog) without a package
// cycle; see Wire.
package diagnostics

import (
	"github.com/tliron/commonlog"
)

// Level mirrors the two channels spec.md §7 calls for: Debug for
// widen/refine-depth approximations, Info for size collapses.
type Level int

const (
	Debug Level = iota
	Info
)

func (l Level) String() string {
	if l == Debug {
		return "debug"
	}
	return "info"
}

// Sink is a leveled log channel. The zero value is not usable; build
// one with NewSink.
type Sink struct {
	log   commonlog.Logger
	level Level
}

// NewSink configures commonlog at the given verbosity (1 is commonlog's
// own "debug" level, matching cmd/kanso-lsp's commonlog.Configure(1,
// nil) call) and returns a Sink that logs at or above level.
func NewSink(level Level) *Sink {
	commonlog.Configure(1, nil)
	return &Sink{log: commonlog.GetLogger("avengine.absval"), level: level}
}

// Record emits a formatted approximation event at lvl, dropping it if
// lvl is below the sink's configured level.
func (s *Sink) Record(lvl Level, format string, args ...any) {
	if s == nil || lvl < s.level {
		return
	}
	if lvl == Debug {
		s.log.Debugf(format, args...)
	} else {
		s.log.Infof(format, args...)
	}
}

// Wire installs sink as the target of hook, the package-level function
// variable internal/absval exposes as ApproxLog (a single untyped hook,
// since every absval call site already prefixes its own message).
// Passing a nil sink restores the no-op default. Size-collapse messages
// are distinguished from widen/refine-depth ones by their first byte:
// absval.MakeFrom's message starts with "expression", while the widen
// and refine-depth messages start otherwise (the widen message also
// contains "collapsed"), since ApproxLog carries no level parameter of
// its own.
func Wire(hook *func(format string, args ...any), sink *Sink) {
	if sink == nil {
		*hook = nil
		return
	}
	*hook = func(format string, args ...any) {
		lvl := Debug
		if len(format) > 0 && format[0] == 'e' {
			lvl = Info
		}
		sink.Record(lvl, format, args...)
	}
}
