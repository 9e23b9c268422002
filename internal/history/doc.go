// Package history persists the most recent notification envelopes per
// organization so clients that reconnect can backfill updates they missed
// while offline. Entries are stored under byte-ordered keys and trimmed to a
// configurable cap on every append.
package history
