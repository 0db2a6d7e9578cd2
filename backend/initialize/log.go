package initialize

import (
	"account-service/backend/config"
	"account-service/backend/global"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// SetupLogger installs the process logger: a console writer to stdout, or to
// the configured file. The returned closer releases the file if one was opened.
func SetupLogger(cfg config.Log) (io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if cfg.Path != "" {
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out, closer = f, f
	}
	global.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: cfg.Path != ""}).Level(level).With().Timestamp().Logger()
	return closer, nil
}
