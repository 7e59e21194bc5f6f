// Package inspect serves a live view of a reactor root over HTTP.
//
// An Inspector is a reactor.Host: it keeps the last commit and pushes each
// new one to WebSocket clients. Routes:
//
//	GET  /tree      last committed tree
//	GET  /stats     root counters
//	GET  /snapshot  instance tree
//	GET  /metrics   Prometheus metrics
//	GET  /ws        commit stream; inbound messages are events
//	POST /events    trigger a handler: {"hid":"h1","type":"click"}
package inspect
