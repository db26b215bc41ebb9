// Package internal documents the organizer console internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: the external-event screen logic (normalize, classify, orchestrate)
// - upstream: the platform API client and its error taxonomy
// - auth, config, i18n, metrics, routes: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
