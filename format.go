package parmsg

const (
	delimStart = '{'
	delimStop  = '}'
	escapeChar = '\\'
)

// Markers emitted by DeepToString. The literals are load-bearing: downstream
// log consumers match on them, so they must not change.
const (
	// RecursionPrefix opens the marker emitted in place of a container that
	// is already being rendered on the current recursion path.
	RecursionPrefix = "[..."
	// RecursionSuffix closes a recursion marker.
	RecursionSuffix = "...]"
	// ErrorPrefix opens the marker emitted when a value's own text
	// conversion panics.
	ErrorPrefix = "[!!!"
	// ErrorSeparator separates the failing value's identity token from the
	// panic type name.
	ErrorSeparator = "=>"
	// ErrorMsgSeparator separates the panic type name from its message.
	ErrorMsgSeparator = ":"
	// ErrorSuffix closes an error marker.
	ErrorSuffix = "!!!]"
)

// Format replaces each unescaped {} placeholder in pattern with the
// deep-stringified form of the next argument, in order, and returns the
// result. Excess placeholders render literally as {}; excess arguments are
// ignored. A '\' escapes the next character: "\\{}" renders a literal "{}",
// "\\\\{}" renders one backslash followed by a substitution.
func Format(pattern string, args ...any) string {
	b := AcquireBuffer()
	formatMessage(b, pattern, args, len(args))
	s := b.String()
	b.Release()
	return s
}

// CountPlaceholders returns the number of active (unescaped) {} placeholders
// in pattern. It agrees exactly with the number of substitutions Format
// attempts for the same pattern.
func CountPlaceholders(pattern string) int {
	result := 0
	escaped := false
	for i := 0; i+1 < len(pattern); i++ {
		switch c := pattern[i]; c {
		case escapeChar:
			escaped = !escaped
		case delimStart:
			if !escaped && pattern[i+1] == delimStop {
				result++
				i++
			}
			escaped = false
		default:
			escaped = false
		}
	}
	return result
}

// formatMessage is the single-pass substitution loop. It walks pattern
// byte-wise (all significant characters are ASCII, so multi-byte runes pass
// through untouched), tracking the run of consecutive '\' since the last
// non-escape byte. Escape pairs collapse to one literal '\'; an odd run
// protects the following {} from substitution. args beyond argCount are
// never consumed.
func formatMessage(b *Buffer, pattern string, args []any, argCount int) {
	if pattern == "" || len(args) == 0 || argCount == 0 {
		b.writeString(pattern)
		return
	}
	escapes := 0
	arg := 0
	i := 0
	last := len(pattern) - 1
	for ; i < last; i++ { // the final byte is handled after the loop
		c := pattern[i]
		if c == escapeChar {
			escapes++
			continue
		}
		if c == delimStart && pattern[i+1] == delimStop {
			i++
			writeEscapeChars(b, escapes>>1) // each escape pair collapses
			if escapes&1 == 1 {
				writeDelimPair(b)
			} else {
				writeArgOrDelimPair(b, args, argCount, arg)
				arg++
			}
		} else {
			writeEscapeChars(b, escapes)
			b.writeByte(c)
		}
		escapes = 0
	}
	if i == last {
		c := pattern[last]
		if c == escapeChar {
			// a trailing escape protects nothing and is emitted in full
			writeEscapeChars(b, escapes+1)
		} else {
			writeEscapeChars(b, escapes)
			b.writeByte(c)
		}
	}
}

func writeEscapeChars(b *Buffer, n int) {
	for ; n > 0; n-- {
		b.writeByte(escapeChar)
	}
}

func writeDelimPair(b *Buffer) {
	b.writeByte(delimStart)
	b.writeByte(delimStop)
}

func writeArgOrDelimPair(b *Buffer, args []any, argCount, next int) {
	if next < argCount {
		recursiveDeepToString(b, args[next], nil)
	} else {
		writeDelimPair(b)
	}
}
