package debug

import (
	"io"
	"log/slog"
	"os"
	"strconv"
)

type debug struct {
	Encode bool
	Decode bool
	Split  bool
}

var (
	d      *debug
	logger *slog.Logger
)

func init() {
	d = &debug{}
	d.Encode = boolEnv("BSONMAP_DEBUG_ENCODE")
	d.Decode = boolEnv("BSONMAP_DEBUG_DECODE")
	d.Split = boolEnv("BSONMAP_DEBUG_SPLIT")
	logger = newLogger(os.Stderr, d.Encode || d.Decode || d.Split)
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Encode() bool {
	return d.Encode
}
func Decode() bool {
	return d.Decode
}
func Split() bool {
	return d.Split
}

// Logger returns the package default logger. It writes debug level text
// to stderr when any BSONMAP_DEBUG_* switch is set and discards
// everything otherwise.
func Logger() *slog.Logger {
	return logger
}

func newLogger(w io.Writer, on bool) *slog.Logger {
	if !on {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
