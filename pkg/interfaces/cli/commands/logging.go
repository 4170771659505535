package commands

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the command logger. Verbose runs log at debug level with
// the development encoder; otherwise only warnings and errors are written, as
// JSON, so they do not mix with the report on stdout.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	var zapConfig zap.Config
	var encoder zapcore.Encoder
	if verbose {
		zapConfig = zap.NewDevelopmentConfig()
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapConfig.Level)
	return zap.New(core, zap.AddCaller())
}
