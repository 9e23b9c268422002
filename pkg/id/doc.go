// Package id generates 128-bit identifiers that sort by creation time.
//
// Envelope ids and history keys both need an ordering property that opaque
// ids cannot give: byte-wise (or string) comparison of two ids must agree
// with the order they were generated in, so stored events replay in publish
// order and clients can sort received events by id alone.
//
// An ID is 16 bytes big-endian: 8 bytes of millisecond timestamp followed by
// 8 bytes of sequence. The Generator keeps ids strictly increasing within a
// process even across clock regressions (it pins to the last seen
// millisecond) and sequence exhaustion (it waits out the millisecond).
//
//	g := id.NewGenerator()
//	eventID := g.Next()
//	s := eventID.String() // hex, carried in envelope ids on the wire
package id
