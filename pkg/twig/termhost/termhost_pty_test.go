//go:build !windows

package termhost

import (
	"strings"
	"testing"

	"github.com/creack/pty"

	"src.twig.sh/pkg/must"
	"src.twig.sh/pkg/twig"
)

func TestFlush_UsesANSIOnTerminal(t *testing.T) {
	ptmx, tty := must.OK2(pty.Open())
	defer ptmx.Close()
	defer tty.Close()

	h := New(tty)
	if !h.color {
		t.Skip("pty slave not detected as a terminal")
	}
	rt := twig.New(h)
	rt.Mount(twig.H("line", nil,
		twig.H("span", twig.P("fg", "green", "bold", true), "ok"),
	), h.Root())
	must.OK(h.Flush())

	buf := make([]byte, 256)
	n := must.OK1(ptmx.Read(buf))
	out := string(buf[:n])
	if !strings.Contains(out, "\x1b[1;32mok\x1b[m") {
		t.Errorf("terminal frame = %q, want bold green SGR around %q", out, "ok")
	}
}
