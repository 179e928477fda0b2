// Package api holds the HTTP handlers for the auth and article endpoints,
// their request and response bodies, and the mapping from service errors to
// status codes and client-safe messages.
package api
