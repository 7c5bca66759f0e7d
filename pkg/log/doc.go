/*
Package log provides structured logging for the canvas server using zerolog.

It wraps a single global zerolog.Logger with JSON or console output and a
handful of context-logger helpers (WithComponent, WithFileID, WithSessionID,
WithConnectionID) so that orchestrator, session, and transport code can tag
their log lines without threading a logger through every call.

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	sessionLog := log.WithSessionID(sessionID)
	sessionLog.Info().Msg("session opened")
*/
package log
