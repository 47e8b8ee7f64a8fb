// Package server exposes the rewrite engine over HTTP.
//
// The engine stays fully usable as a library; this package is a thin
// consumer that binds it to a gin router. Endpoints:
//
//	GET  /                 hello message with version
//	GET  /health           per-component status strings
//	POST /api/parse        plain-text expression in, chosen format out
//	POST /api/rewrite      ordered named transforms with a step trace
//	POST /rewriteOptions   rewrite suggestions for a selected subtree
//	GET  /history          recent journaled requests, when enabled
//
// The transform endpoints report failures in-body with success=false, never
// as HTTP errors; /rewriteOptions answers 400 on unparseable markup because
// the client sent markup it generated itself, so a parse failure there is a
// client bug.
package server
