package parmsg

import (
	"io"

	"pkt.systems/parmsg/ansi"
)

// ConsoleOptions controls how a Console renders messages.
type ConsoleOptions struct {
	// NoColor forces color escape codes off regardless of terminal
	// detection.
	NoColor bool

	// ForceColor bypasses terminal detection and emits color even when the
	// destination is not a TTY. Useful for tests and forced-color logs.
	ForceColor bool

	// Palette overrides the colors used for substituted arguments and
	// causes. When nil, ansi.Default applies.
	Palette *ansi.Palette
}

// Console writes formatted messages to a writer, highlighting substituted
// arguments and the captured cause when the destination is a terminal. The
// plain and colored emit paths are separate so the non-TTY case carries no
// color branching.
type Console struct {
	w        io.Writer
	color    bool
	argColor string
	errColor string
}

// NewConsole builds a Console that auto-detects color support on w.
func NewConsole(w io.Writer) *Console {
	return NewConsoleWithOptions(w, ConsoleOptions{})
}

// NewConsoleWithOptions builds a Console with explicit settings.
func NewConsoleWithOptions(w io.Writer, opts ConsoleOptions) *Console {
	if w == nil {
		w = io.Discard
	}
	pal := opts.Palette
	if pal == nil {
		pal = &ansi.Default
	}
	return &Console{
		w:        w,
		color:    !opts.NoColor && (opts.ForceColor || isTerminal(w)),
		argColor: pal.Argument,
		errColor: pal.Cause,
	}
}

// Print writes one formatted message line to the console, followed by the
// captured cause (if any) and a newline.
func (c *Console) Print(m *Message) error {
	b := AcquireBuffer()
	defer b.Release()
	if c.color {
		formatMessageColored(b, m.pattern, m.rawArgs(), m.argCount, c.argColor)
		if cause := m.Cause(); cause != nil {
			b.writeString(" cause=")
			b.writeString(c.errColor)
			appendSafe(b, cause)
			b.writeString(ansi.Reset)
		}
	} else {
		m.FormatTo(b)
		if cause := m.Cause(); cause != nil {
			b.writeString(" cause=")
			appendSafe(b, cause)
		}
	}
	b.writeByte('\n')
	_, err := c.w.Write(b.Bytes())
	return err
}

// formatMessageColored mirrors formatMessage but wraps every substituted
// argument in color escape sequences. Kept as a dedicated path so plain
// formatting never tests a color flag per character.
func formatMessageColored(b *Buffer, pattern string, args []any, argCount int, color string) {
	if color == "" {
		formatMessage(b, pattern, args, argCount)
		return
	}
	if pattern == "" || len(args) == 0 || argCount == 0 {
		b.writeString(pattern)
		return
	}
	escapes := 0
	arg := 0
	i := 0
	last := len(pattern) - 1
	for ; i < last; i++ {
		ch := pattern[i]
		if ch == escapeChar {
			escapes++
			continue
		}
		if ch == delimStart && pattern[i+1] == delimStop {
			i++
			writeEscapeChars(b, escapes>>1)
			if escapes&1 == 1 {
				writeDelimPair(b)
			} else {
				if arg < argCount {
					b.writeString(color)
					recursiveDeepToString(b, args[arg], nil)
					b.writeString(ansi.Reset)
				} else {
					writeDelimPair(b)
				}
				arg++
			}
		} else {
			writeEscapeChars(b, escapes)
			b.writeByte(ch)
		}
		escapes = 0
	}
	if i == last {
		ch := pattern[last]
		if ch == escapeChar {
			writeEscapeChars(b, escapes+1)
		} else {
			writeEscapeChars(b, escapes)
			b.writeByte(ch)
		}
	}
}
