package parmsg

import (
	"strconv"
	"sync"
	"time"
)

const (
	bufferDefaultCap = 256
	bufferMaxCap     = 64 << 10
)

// timeLayout is the fixed, locale-independent layout used for time.Time
// arguments (four-digit year, millisecond precision, numeric zone offset).
const timeLayout = "2006-01-02T15:04:05.000-0700"

const timeCacheSlots = 4

type timeCacheEntry struct {
	nano   int64
	offset int
	str    string
}

// Buffer is a growable text buffer that Message and the deep stringifier
// append into. Buffers are reusable: acquire one from the pool, format into
// it, take the result with String or Bytes, and Release it. A Buffer must not
// be shared between concurrent callers; each logical execution context owns
// its own.
type Buffer struct {
	buf       []byte
	timeCache [timeCacheSlots]timeCacheEntry
}

var bufferPool = sync.Pool{
	New: func() any {
		return &Buffer{buf: make([]byte, 0, bufferDefaultCap)}
	},
}

// AcquireBuffer returns an empty Buffer from the pool.
func AcquireBuffer() *Buffer {
	b := bufferPool.Get().(*Buffer)
	b.buf = b.buf[:0]
	return b
}

// Release resets b and returns it to the pool. The caller must not use b
// afterwards.
func (b *Buffer) Release() {
	if cap(b.buf) > bufferMaxCap {
		b.buf = make([]byte, 0, bufferDefaultCap)
	} else {
		b.buf = b.buf[:0]
	}
	for i := range b.timeCache {
		b.timeCache[i] = timeCacheEntry{}
	}
	bufferPool.Put(b)
}

// Reset truncates b to zero length, keeping its capacity.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Len returns the number of bytes accumulated so far.
func (b *Buffer) Len() int { return len(b.buf) }

// Bytes returns the accumulated bytes. The slice aliases the buffer and is
// only valid until the next write or Reset.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns a copy of the accumulated text.
func (b *Buffer) String() string { return string(b.buf) }

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	b.writeBytes(p)
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (b *Buffer) WriteString(s string) (int, error) {
	b.writeString(s)
	return len(s), nil
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	b.writeByte(c)
	return nil
}

func (b *Buffer) reserve(n int) {
	if n <= 0 {
		return
	}
	need := len(b.buf) + n
	if need <= cap(b.buf) {
		return
	}
	newCap := max(cap(b.buf)*2+n, need)
	if newCap > bufferMaxCap {
		newCap = need
	}
	newBuf := make([]byte, len(b.buf), newCap)
	copy(newBuf, b.buf)
	b.buf = newBuf
}

func (b *Buffer) writeByte(c byte) {
	b.reserve(1)
	b.buf = append(b.buf, c)
}

func (b *Buffer) writeString(s string) {
	if s == "" {
		return
	}
	b.reserve(len(s))
	b.buf = append(b.buf, s...)
}

func (b *Buffer) writeBytes(p []byte) {
	if len(p) == 0 {
		return
	}
	b.reserve(len(p))
	b.buf = append(b.buf, p...)
}

func (b *Buffer) writeInt64(n int64) {
	b.reserve(24)
	b.buf = strconv.AppendInt(b.buf, n, 10)
}

func (b *Buffer) writeUint64(n uint64) {
	b.reserve(24)
	b.buf = strconv.AppendUint(b.buf, n, 10)
}

func (b *Buffer) writeFloat64(f float64) {
	b.reserve(32)
	b.buf = strconv.AppendFloat(b.buf, f, 'f', -1, 64)
}

// writeFloat32 keeps bitSize 32 so shortest-form rendering reflects float32
// precision instead of the widened float64 value.
func (b *Buffer) writeFloat32(f float32) {
	b.reserve(32)
	b.buf = strconv.AppendFloat(b.buf, float64(f), 'f', -1, 32)
}

func (b *Buffer) writeBool(v bool) {
	if v {
		b.writeString("true")
	} else {
		b.writeString("false")
	}
}

// writeTime renders t using timeLayout. Repeated timestamps hit a small
// per-buffer cache keyed by instant and zone offset.
func (b *Buffer) writeTime(t time.Time) {
	nano := t.UnixNano()
	_, offset := t.Zone()
	for i := range b.timeCache {
		entry := &b.timeCache[i]
		if entry.str != "" && entry.nano == nano && entry.offset == offset {
			b.writeString(entry.str)
			return
		}
	}
	str := t.Format(timeLayout)
	idx := int(nano) & (timeCacheSlots - 1)
	b.timeCache[idx] = timeCacheEntry{nano: nano, offset: offset, str: str}
	b.writeString(str)
}
