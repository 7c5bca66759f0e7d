// Package filestore persists canvas documents to disk and tracks a small
// admin registry of every file id the server has ever opened.
//
// Each document lives as a single {file_id}.rcs flat file: the same
// length-prefixed binary snapshot document.Store.Encode/Decode already uses
// for the wire protocol's Init event, just written straight to disk rather
// than framed for a socket. A companion bbolt database holds the admin
// registry — which file ids exist, whether they were last opened under a
// manual-commit session, and when they were created/updated — so the admin
// HTTP surface can list known documents without touching every .rcs file.
package filestore
