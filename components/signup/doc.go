// Package signup mounts the two-step sign-up flow on a net/http mux.
//
// GET renders the active step for the visitor's session, POST applies the
// submitted fields and the submit action, and a small JSON endpoint accepts
// field-level events for live updates of the submit control. Finalized
// drafts are handed to a finalize.Sink.
package signup
