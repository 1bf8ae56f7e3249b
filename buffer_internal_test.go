package parmsg

import (
	"testing"
	"time"
)

func TestBufferTimeCacheHit(t *testing.T) {
	b := AcquireBuffer()
	defer b.Release()

	ts := time.Date(2024, time.June, 1, 10, 20, 30, 400_000_000, time.UTC)
	b.writeTime(ts)
	first := b.String()
	b.Reset()
	b.writeTime(ts)
	if b.String() != first {
		t.Fatalf("cache returned different rendering: %q vs %q", b.String(), first)
	}

	// a different instant must not hit the stale entry
	b.Reset()
	b.writeTime(ts.Add(time.Millisecond))
	if b.String() == first {
		t.Fatalf("cache returned stale rendering for a different instant")
	}
}

func TestBufferReleaseClampsCapacity(t *testing.T) {
	b := AcquireBuffer()
	big := make([]byte, bufferMaxCap+1)
	b.writeBytes(big)
	b.Release()

	b = AcquireBuffer()
	defer b.Release()
	if cap(b.buf) > bufferMaxCap {
		t.Fatalf("oversized buffer returned to pool: cap=%d", cap(b.buf))
	}
	if b.Len() != 0 {
		t.Fatalf("acquired buffer not empty: %d bytes", b.Len())
	}
}

func TestBufferWriterInterfaces(t *testing.T) {
	b := AcquireBuffer()
	defer b.Release()
	if _, err := b.WriteString("ab"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := b.WriteByte('c'); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if n, err := b.Write([]byte("de")); n != 2 || err != nil {
		t.Fatalf("Write: n=%d err=%v", n, err)
	}
	if b.String() != "abcde" {
		t.Fatalf("unexpected contents %q", b.String())
	}
}

func TestBufferPoolDoesNotLeakContents(t *testing.T) {
	b := AcquireBuffer()
	b.writeString("secret")
	b.Release()

	b = AcquireBuffer()
	defer b.Release()
	if b.Len() != 0 {
		t.Fatalf("pooled buffer carried %d bytes", b.Len())
	}
}
