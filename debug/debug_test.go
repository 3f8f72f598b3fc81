package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/signadot/go-bsonmap/ir"
)

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger(buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("discard logger wrote %q", buf.String())
	}
	l := newLogger(buf, true)
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug level enabled")
	}
	l.Debug("shown", "doc", Node{ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString("a"), Val: ir.FromInt(1)}})})
	out := buf.String()
	if !strings.Contains(out, "msg=shown") || strings.Contains(out, "time=") {
		t.Errorf("unexpected log line %q", out)
	}
	if !strings.Contains(out, `{\"a\":1}`) {
		t.Errorf("expected node rendering in %q", out)
	}
}
