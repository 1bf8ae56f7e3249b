// Package ansi provides the ANSI escape sequences and the small palette used
// by parmsg's colored console printer. The palette maps message roles
// (substituted arguments, captured causes, inline markers) to escape
// sequences and can be swapped per Console without touching parmsg internals.
package ansi

// Reset clears all terminal styling; the remaining constants expose the
// common ANSI color sequences parmsg uses.
const (
	Reset         = "\x1b[0m"
	Bold          = "\x1b[1m"
	Faint         = "\x1b[90m"
	Red           = "\x1b[31m"
	Green         = "\x1b[32m"
	Yellow        = "\x1b[33m"
	Blue          = "\x1b[34m"
	Magenta       = "\x1b[35m"
	Cyan          = "\x1b[36m"
	BrightRed     = "\x1b[1;31m"
	BrightGreen   = "\x1b[1;32m"
	BrightYellow  = "\x1b[1;33m"
	BrightBlue    = "\x1b[1;34m"
	BrightMagenta = "\x1b[1;35m"
	BrightCyan    = "\x1b[1;36m"
)

// Palette assigns colors to the roles a formatted message line is built
// from. Empty fields mean "no styling" for that role.
type Palette struct {
	// Argument styles text substituted for a {} placeholder.
	Argument string
	// Cause styles the captured cause appended after the message text.
	Cause string
}

// Default is the palette used when a Console is built without an explicit
// one.
var Default = Palette{
	Argument: Cyan,
	Cause:    BrightRed,
}
