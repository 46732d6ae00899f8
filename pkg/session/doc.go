// Package session keeps one wizard state per visitor in memory. Events for a
// session are applied under that session's lock, so they take effect in
// arrival order; idle sessions expire after a TTL and are evicted by Run.
package session
