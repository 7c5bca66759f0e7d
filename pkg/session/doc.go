// Package session pairs a server leader document with a
// connection roster, a behavior policy, and — for ManualCommitByAdmin
// sessions only — a pending-transaction queue. One session exists per open
// file at a time; pkg/orchestrator owns the map from file to session and
// is the only caller of this package.
package session
