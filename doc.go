// Package parmsg implements the parameterized log-message value used on the
// hot path of high-throughput loggers: a pattern string with positional {}
// placeholders, substituted lazily with a variadic argument list, plus a
// cycle-safe deep stringifier that renders arbitrary structured values
// without blowing the stack on self-referential data.
//
// # Design overview
//
//   - Single-pass substitution: the formatter walks the pattern once,
//     tracking runs of '\' escapes. Escape pairs collapse, an odd run
//     protects the following {} from substitution, and argument/placeholder
//     count mismatches are tolerated rather than reported.
//   - Identity-keyed cycle guard: containers (slices, maps, Collections,
//     pointers) are tracked by instance identity on the current recursion
//     path. Each child recursion gets its own copy of the visited set, so
//     equal siblings render fully while a cyclic return to an ancestor is
//     cut off with an inline "[...type@addr...]" marker.
//   - Total containment: a panicking String or Error conversion never
//     escapes; it is rendered as an inline "[!!!...!!!]" marker instead.
//   - Reuse plumbing: pooled Buffers and Messages make steady-state
//     formatting allocation free. A freshly allocated buffer per call is
//     always equally correct; pooling is an optimisation, not a dependency.
//
// # Usage
//
//	msg := parmsg.New("user {} logged in from {}", name, addr)
//	line := msg.FormattedMessage() // formatted once, cached until Reset
//
// An unconsumed trailing error is captured as the message's cause:
//
//	msg := parmsg.New("fetch {} failed", url, err)
//	msg.Cause() // err, excluded from formatting
//
// For allocation-free reuse, acquire from the pool and reset per call:
//
//	msg := parmsg.AcquireMessage("served {} in {}", bytes, elapsed)
//	defer parmsg.ReleaseMessage(msg)
//	msg.FormatTo(buf)
//
// The Console type renders messages to a writer, colorizing substituted
// arguments when the destination is a terminal (the ansi subpackage holds
// the palette).
//
// parmsg is the message layer only: it has no sinks, levels, or delivery
// machinery, and composes with whatever logger owns the output.
package parmsg
