package parmsg

import (
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// maxSlots is the number of fixed argument slots a Message carries. Reset
// calls with at most this many arguments copy them into the slots, so the
// variadic slice never escapes and the common 1-2 argument log call stays
// allocation free.
const maxSlots = 10

// Message is a lazily formatted log message: a pattern with {} placeholders
// plus the arguments to substitute. Formatting happens on the first read of
// the text form and is cached until the next Reset. If the last argument is
// an error not consumed by any placeholder it is detached as the message's
// cause and excluded from formatting.
//
// A Message is not safe for concurrent use; each goroutine formats its own
// instances.
type Message struct {
	pattern  string
	args     []any // nil while the fixed slots hold the arguments
	slots    [maxSlots]any
	rawCount int // arguments supplied
	argCount int // arguments available to placeholders (cause excluded)
	cause    error
	text     string
	done     bool
	reused   bool
}

// New builds a Message from pattern and args. If fewer arguments are consumed
// by placeholders than were supplied and the last argument is an error, that
// error becomes the message's Cause and is excluded from formatting.
func New(pattern string, args ...any) *Message {
	m := &Message{}
	m.set(pattern, args)
	return m
}

// NewWithCause builds a Message with an explicit cause. The last-argument
// extraction of New does not apply; every argument stays available to
// placeholders.
func NewWithCause(pattern string, args []any, cause error) *Message {
	m := &Message{cause: cause}
	m.set(pattern, args)
	return m
}

// Reset reinitialises m in place with a new pattern and arguments, clearing
// any cached text and previously captured cause. It returns m for chaining.
func (m *Message) Reset(pattern string, args ...any) *Message {
	m.cause = nil
	m.set(pattern, args)
	return m
}

func (m *Message) set(pattern string, args []any) {
	if len(args) <= maxSlots {
		n := copy(m.slots[:], args)
		for i := n; i < maxSlots; i++ {
			m.slots[i] = nil
		}
		m.args = nil
		m.rawCount = n
	} else {
		for i := range m.slots {
			m.slots[i] = nil
		}
		m.args = args
		m.rawCount = len(args)
	}
	m.pattern = pattern
	m.argCount = m.rawCount
	m.text = ""
	m.done = false

	used := CountPlaceholders(pattern)
	if used < m.argCount && m.cause == nil {
		if err, ok := m.rawArgs()[m.argCount-1].(error); ok && err != nil {
			m.cause = err
			m.argCount--
		}
	}
}

// rawArgs returns the full supplied argument sequence, including an extracted
// cause.
func (m *Message) rawArgs() []any {
	if m.args != nil {
		return m.args
	}
	return m.slots[:m.rawCount]
}

// Pattern returns the raw message pattern.
func (m *Message) Pattern() string { return m.pattern }

// Arguments returns the arguments available to placeholders. An extracted
// cause is not included.
func (m *Message) Arguments() []any { return m.rawArgs()[:m.argCount] }

// Cause returns the error captured from the tail of the argument list, or the
// explicitly supplied cause, or nil.
func (m *Message) Cause() error { return m.cause }

// Reused reports whether m has been through the message pool at least once.
func (m *Message) Reused() bool { return m.reused }

// FormattedMessage returns the formatted text, performing the substitution on
// first call and returning the cached result thereafter.
func (m *Message) FormattedMessage() string {
	if !m.done {
		b := AcquireBuffer()
		formatMessage(b, m.pattern, m.rawArgs(), m.argCount)
		m.text = b.String()
		b.Release()
		m.done = true
	}
	return m.text
}

// String implements fmt.Stringer.
func (m *Message) String() string { return m.FormattedMessage() }

// FormatTo appends the formatted text to b, reusing the cached result when
// formatting has already happened. It implements Formattable, so a Message
// can itself be an argument to another Message.
func (m *Message) FormatTo(b *Buffer) {
	if m.done {
		b.writeString(m.text)
		return
	}
	formatMessage(b, m.pattern, m.rawArgs(), m.argCount)
}

// Equal reports structural equality over (pattern, full raw argument
// sequence). The cause is deliberately excluded: it is derived,
// order-dependent state, not identity.
func (m *Message) Equal(o *Message) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil {
		return false
	}
	if m.pattern != o.pattern {
		return false
	}
	return reflect.DeepEqual(m.rawArgs(), o.rawArgs())
}

// Hash returns a structural hash consistent with Equal, computed with xxhash
// over the pattern and the deep-stringified raw arguments.
func (m *Message) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(m.pattern)
	for _, arg := range m.rawArgs() {
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(DeepToString(arg))
	}
	return d.Sum64()
}

var messagePool = sync.Pool{
	New: func() any {
		return &Message{}
	},
}

// AcquireMessage returns a pooled Message initialised with pattern and args,
// with the same cause extraction as New. Release it with ReleaseMessage when
// the owning log call is finished.
func AcquireMessage(pattern string, args ...any) *Message {
	m := messagePool.Get().(*Message)
	m.cause = nil
	m.set(pattern, args)
	return m
}

// ReleaseMessage clears m and returns it to the pool. Argument references are
// dropped so pooled messages do not pin caller values.
func ReleaseMessage(m *Message) {
	if m == nil {
		return
	}
	m.pattern = ""
	m.args = nil
	for i := range m.slots {
		m.slots[i] = nil
	}
	m.rawCount = 0
	m.argCount = 0
	m.cause = nil
	m.text = ""
	m.done = false
	m.reused = true
	messagePool.Put(m)
}
