// Package finalize is the boundary finalized sign-ups are handed to. A Sink
// receives a Submission once the wizard reports a finalize effect; LogSink
// records it (secrets redacted) and HTTPSink forwards it to a backend described
// by the embedded contract.
package finalize
