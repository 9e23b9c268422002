// Package httpserver exposes the status page API over HTTP: organization,
// service, incident, and maintenance management, the public page view, and
// the realtime transports (websocket and SSE). Routing uses the standard
// library mux with controllers grouped per resource under controllers/.
package httpserver
