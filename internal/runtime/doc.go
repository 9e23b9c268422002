// Package runtime assembles the storage layer and configuration into one
// handle the servers and CLI share. It owns the pebble database lifecycle;
// domain packages receive the DB from here rather than opening their own.
package runtime
