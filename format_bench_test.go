package parmsg

import "testing"

func BenchmarkFormatReused(b *testing.B) {
	args := []any{"alice", 42}
	m := &Message{}
	buf := AcquireBuffer()
	defer buf.Release()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Reset("user {} logged in with {} sessions", args...)
		m.FormatTo(buf)
		buf.Reset()
	}
}

func BenchmarkFormatFresh(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Format("user {} logged in with {} sessions", "alice", 42)
	}
}

func BenchmarkDeepToStringNested(b *testing.B) {
	value := []any{"a", []int{1, 2, 3}, map[string]int{"k": 1}}
	buf := AcquireBuffer()
	defer buf.Release()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		recursiveDeepToString(buf, value, nil)
		buf.Reset()
	}
}

func BenchmarkCountPlaceholders(b *testing.B) {
	pattern := `a{}b\{}c{}d\\{} tail {}`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = CountPlaceholders(pattern)
	}
}
