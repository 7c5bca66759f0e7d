package orchestrator

import "github.com/cuemby/rcanvas/pkg/types"

// command is the closed set of work items the orchestrator's single
// channel carries. Each variant knows how to apply itself against the
// orchestrator's state; apply is only ever called from the run loop
// goroutine, which is what makes that state single-writer.
type command interface {
	apply(o *Orchestrator)
}

type connectCommand struct {
	FileId types.FileId
	Egress chan<- ConnectionEvent
}

func (c *connectCommand) apply(o *Orchestrator) { o.handleConnect(c.FileId, c.Egress) }

type disconnectCommand struct {
	From types.ConnectionId
}

func (c *disconnectCommand) apply(o *Orchestrator) { o.handleDisconnect(c.From) }

type identifiableCommand struct {
	From    types.ConnectionId
	Command types.IdentifiableCommand
}

func (c *identifiableCommand) apply(o *Orchestrator) { o.handleIdentifiableCommand(c.From, c.Command) }

// Connect submits a new connection for fileID, registering egress as the
// channel the orchestrator will push ConnectionEvents to for it. It does
// not block past the channel send; the caller learns its allocated
// ConnectionId from the Connected event egress subsequently receives.
func (o *Orchestrator) Connect(fileID types.FileId, egress chan<- ConnectionEvent) {
	o.cmdCh <- &connectCommand{FileId: fileID, Egress: egress}
}

// Disconnect tells the orchestrator a connection's socket has closed.
func (o *Orchestrator) Disconnect(from types.ConnectionId) {
	o.cmdCh <- &disconnectCommand{From: from}
}

// Submit forwards a decoded client command, attributed to the connection
// that sent it.
func (o *Orchestrator) Submit(from types.ConnectionId, cmd types.IdentifiableCommand) {
	o.cmdCh <- &identifiableCommand{From: from, Command: cmd}
}
