package server

import (
	"sync/atomic"

	"github.com/chzchzchz/rtludp/sdrudp"
)

type counters struct {
	blocksSent      atomic.Uint64
	bytesSent       atomic.Uint64
	readErrors      atomic.Uint64
	sendErrors      atomic.Uint64
	commands        atomic.Uint64
	unknownCommands atomic.Uint64
	droppedCommands atomic.Uint64
	setErrors       atomic.Uint64
	receiveErrors   atomic.Uint64
}

func (c *counters) snapshot() sdrudp.Stats {
	return sdrudp.Stats{
		BlocksSent:      c.blocksSent.Load(),
		BytesSent:       c.bytesSent.Load(),
		ReadErrors:      c.readErrors.Load(),
		SendErrors:      c.sendErrors.Load(),
		Commands:        c.commands.Load(),
		UnknownCommands: c.unknownCommands.Load(),
		DroppedCommands: c.droppedCommands.Load(),
		SetErrors:       c.setErrors.Load(),
		ReceiveErrors:   c.receiveErrors.Load(),
	}
}
