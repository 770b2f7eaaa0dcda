// Package applog builds the module's ambient zap logger: a color-aware
// console core split by level, teed with an optional file core.
//
// Grounded on the teacher's config.LoggingConfig.Prepare (config/logger.go):
// same split-core construction (info/debug on stdout, error+ on stderr),
// same color detection (EnableColorOutput, here enableColorOutput split
// across color_unix.go/color_windows.go), same append/overwrite file
// open modes. Dropped relative to the teacher: the debug Report/crash-log
// bundling (config.Report, runtime/debug.SetCrashOutput) — this module has
// no equivalent of the teacher's "--debug" support-bundle feature, and
// nothing in SPEC_FULL.md calls for one (see DESIGN.md).
package applog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"ebookconv/internal/appconfig"
)

// Name is the logger's top-level Named() component, mirroring the
// teacher's misc.GetAppName() convention.
const Name = "ebookconv"

// New builds the ambient logger from cfg. It never returns a nil logger
// on success; every package otherwise falls back to zap.NewNop().
func New(cfg appconfig.LoggingConfig) (*zap.Logger, error) {
	consoleLP, consoleHP := consoleCores(cfg.Console)

	fc, err := fileCore(cfg.File)
	if err != nil {
		return nil, err
	}

	logger := zap.New(zapcore.NewTee(consoleHP, consoleLP, fc), zap.AddCaller())
	return logger.Named(Name), nil
}

func consoleCores(cfg appconfig.LoggerConfig) (lp, hp zapcore.Core) {
	lpEncoder := consoleEncoder(os.Stdout)
	hpEncoder := noVerboseErrorEncoder(consoleEncoder(os.Stderr))

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	switch cfg.Level {
	case "normal":
		lp = zapcore.NewCore(lpEncoder, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return zapcore.InfoLevel <= lvl && lvl < zapcore.ErrorLevel
		}))
		hp = zapcore.NewCore(hpEncoder, zapcore.Lock(os.Stderr), highPriority)
	case "debug":
		lp = zapcore.NewCore(lpEncoder, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return zapcore.DebugLevel <= lvl && lvl < zapcore.ErrorLevel
		}))
		hp = zapcore.NewCore(hpEncoder, zapcore.Lock(os.Stderr), highPriority)
	default:
		lp = zapcore.NewNopCore()
		hp = zapcore.NewNopCore()
	}
	return lp, hp
}

func consoleEncoder(stream *os.File) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if enableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// noVerboseErrorEncoder strips an error field down to its top-level
// message before it reaches the console, the same filtering the
// teacher's consoleEnc applies to its high-priority core.
type noVerboseErrorEncoder struct{ zapcore.Encoder }

func (e noVerboseErrorEncoder) Clone() zapcore.Encoder {
	return noVerboseErrorEncoder{e.Encoder.Clone()}
}

func (e noVerboseErrorEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	flattened := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok {
				f.Interface = fmt.Errorf("%s", err.Error())
			}
		}
		flattened[i] = f
	}
	return e.Encoder.EncodeEntry(ent, flattened)
}

func fileCore(cfg appconfig.LoggerConfig) (zapcore.Core, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zap.DebugLevel
	case "normal":
		level = zap.InfoLevel
	default:
		return zapcore.NewNopCore(), nil
	}
	if cfg.Destination == "" {
		return zapcore.NewNopCore(), nil
	}

	flags := os.O_CREATE | os.O_WRONLY
	if cfg.Mode == "append" {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(cfg.Destination, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", cfg.Destination, err)
	}
	return zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(f), zap.NewAtomicLevelAt(level)), nil
}
