// Package materialize projects any document.Reader into typed view
// records — DocumentView, FrameView, OvalView — for external consumption
// (the client-kernel JSON surface, tests, and any future host-facing
// rendering). It is parameterized purely over the reader capability set,
// never a concrete store, so it works
// identically against a document.Store, a leader's Reader(), or a
// txn.Document overlay.
package materialize
