package ws

// MessagePing is an application-level keepalive from the client, on top of
// the protocol ping frames the hub already sends.
type MessagePing struct {
}

func (msg *MessagePing) GetType() string {
	return "ping"
}

// Process answers on the originating connection's locked write path; a pong
// must never interleave with a hub push to the same socket.
func (msg *MessagePing) Process(ctx *MessageContext) error {
	return ctx.Client.Send(map[string]string{
		"type": "pong",
	})
}

// MessagePong lets clients that measure latency answer our pings in-band.
type MessagePong struct {
}

func (msg *MessagePong) GetType() string {
	return "pong"
}

func (msg *MessagePong) Process(ctx *MessageContext) error {
	return nil
}
