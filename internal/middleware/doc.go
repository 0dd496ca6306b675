// Package middleware provides the HTTP middleware for the inspection server:
// W3C request logging, Prometheus request metrics by route template, and
// gzip compression of JSON responses.
package middleware
