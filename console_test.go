package parmsg_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creack/pty"
	"pkt.systems/parmsg"
	"pkt.systems/parmsg/ansi"
)

func TestConsolePlainOutput(t *testing.T) {
	var buf bytes.Buffer
	console := parmsg.NewConsole(&buf)
	if err := console.Print(parmsg.New("hello {}", "world")); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	if got := buf.String(); got != "hello world\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestConsoleAppendsCause(t *testing.T) {
	var buf bytes.Buffer
	console := parmsg.NewConsole(&buf)
	if err := console.Print(parmsg.New("request failed", errors.New("timeout"))); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	if got := buf.String(); got != "request failed cause=timeout\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestConsoleNoColorOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	console := parmsg.NewConsole(&buf)
	_ = console.Print(parmsg.New("n={}", 1))
	if hasANSI(buf.String()) {
		t.Fatalf("expected no colors on non-terminal writer, got %q", buf.String())
	}
}

func TestConsoleForceColorNoTTY(t *testing.T) {
	var buf bytes.Buffer
	console := parmsg.NewConsoleWithOptions(&buf, parmsg.ConsoleOptions{ForceColor: true})
	_ = console.Print(parmsg.New("n={}", 1))
	out := buf.String()
	if !hasANSI(out) {
		t.Fatalf("expected ANSI sequences with ForceColor, got %q", out)
	}
	if !strings.Contains(out, ansi.Default.Argument+"1"+ansi.Reset) {
		t.Fatalf("argument not highlighted: %q", out)
	}
}

func TestConsoleForceColorPreservesText(t *testing.T) {
	var plain, colored bytes.Buffer
	_ = parmsg.NewConsole(&plain).Print(parmsg.New("a{}b {}", 1, "x"))
	_ = parmsg.NewConsoleWithOptions(&colored, parmsg.ConsoleOptions{ForceColor: true}).
		Print(parmsg.New("a{}b {}", 1, "x"))
	if stripANSI(colored.String()) != plain.String() {
		t.Fatalf("color variant changed text: %q vs %q", colored.String(), plain.String())
	}
}

func TestConsoleColorAutoDetectWithTTY(t *testing.T) {
	out := captureTTYOutput(t, func(w io.Writer) {
		console := parmsg.NewConsole(w)
		_ = console.Print(parmsg.New("tty {}", "color"))
	})
	if !hasANSI(out) {
		t.Fatalf("expected ANSI sequences when terminal detected, got %q", out)
	}
}

func TestConsoleNoColorOnTTY(t *testing.T) {
	out := captureTTYOutput(t, func(w io.Writer) {
		console := parmsg.NewConsoleWithOptions(w, parmsg.ConsoleOptions{NoColor: true})
		_ = console.Print(parmsg.New("tty {}", "plain"))
	})
	if hasANSI(out) {
		t.Fatalf("unexpected ANSI sequences when NoColor set: %q", out)
	}
}

func TestConsoleCustomPalette(t *testing.T) {
	var buf bytes.Buffer
	pal := &ansi.Palette{Argument: ansi.Green, Cause: ansi.Magenta}
	console := parmsg.NewConsoleWithOptions(&buf, parmsg.ConsoleOptions{ForceColor: true, Palette: pal})
	_ = console.Print(parmsg.New("v={}", 3))
	if !strings.Contains(buf.String(), ansi.Green+"3"+ansi.Reset) {
		t.Fatalf("palette override ignored: %q", buf.String())
	}
}

func captureTTYOutput(t *testing.T, fn func(io.Writer)) string {
	t.Helper()
	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, master)
		close(done)
	}()
	fn(slave)
	_ = slave.Close()
	<-done
	_ = master.Close()
	return buf.String()
}

func hasANSI(s string) bool {
	return strings.Contains(s, "\x1b[")
}

func stripANSI(s string) string {
	for {
		start := strings.Index(s, "\x1b[")
		if start < 0 {
			return s
		}
		end := strings.IndexByte(s[start:], 'm')
		if end < 0 {
			return s[:start]
		}
		s = s[:start] + s[start+end+1:]
	}
}
