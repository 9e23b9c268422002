// Package client provides the `statuspage` command-line client.
//
// The CLI talks to the status page HTTP API to manage organizations,
// services, incidents, and maintenance from a terminal, and can watch an
// organization's live updates over the websocket endpoint. It is primarily
// intended for developers and operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it reads
// STATUSPAGE_HTTP and defaults to http://127.0.0.1:8080.
//
// Usage
//
//	statuspage org create --name "Acme Corp"
//	statuspage org list
//
//	statuspage service create --org 1 --name API --description "Public API"
//	statuspage service update --org 1 --id 1 --status degraded
//
//	statuspage incident create --org 1 --title "API outage" --service 1
//	statuspage incident note --org 1 --id 1 --text "Investigating"
//	statuspage incident update --org 1 --id 1 --status resolved
//
//	statuspage maintenance create --org 1 --title "DB upgrade" \
//	    --start 2026-09-02T01:00:00Z --end 2026-09-02T03:00:00Z
//
//	statuspage status --slug acme-corp
//	statuspage events --org 1 --limit 20
//	statuspage watch --org 1
package client
