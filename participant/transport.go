package participant

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"snatch/protocol"
)

const writeTimeout = 5 * time.Second

// transport keeps a connection up until ctx is cancelled, retrying forever
// on a fixed backoff.
func (p *Participant) transport(ctx context.Context) {
	for {
		err := p.session(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Printf("connection lost: %v, retrying in %s", err, p.opts.Backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.opts.Backoff):
		}
	}
}

// session runs one connection: a writer goroutine drains the outbox while
// this goroutine reads.
func (p *Participant) session(ctx context.Context) error {
	ws, _, err := p.opts.Dialer.DialContext(ctx, p.opts.URL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer ws.Close()

	// stale messages belong to the previous player
	p.flushOutbox()

	if p.opts.Name != "" {
		b, err := protocol.Encode(protocol.MsgHello, protocol.Hello{V: 1, Name: p.opts.Name})
		if err != nil {
			return err
		}
		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			return fmt.Errorf("hello: %w", err)
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				_ = ws.Close()
				return
			case b := <-p.outbox:
				_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
					_ = ws.Close()
					return
				}
			}
		}
	}()

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		p.handle(ctx, msg)
	}
}

func (p *Participant) handle(ctx context.Context, raw []byte) {
	env, err := protocol.DecodeEnvelope(raw)
	if err != nil {
		log.Printf("bad message: %v", err)
		return
	}
	switch env.T {
	case protocol.MsgInit:
		msg, err := protocol.DecodePayload[protocol.Init](env)
		if err != nil {
			log.Printf("bad init: %v", err)
			return
		}
		// init must not be lost; everything else may be
		select {
		case p.events <- msg:
		case <-ctx.Done():
		}
	case protocol.MsgGameState:
		st, err := protocol.DecodePayload[protocol.State](env)
		if err != nil {
			log.Printf("bad gameState: %v", err)
			return
		}
		p.roster.Store(&st)
	case protocol.MsgCapture:
		c, err := protocol.DecodePayload[protocol.Capture](env)
		if err != nil {
			return
		}
		select {
		case p.events <- c:
		default:
		}
	}
}

func (p *Participant) flushOutbox() {
	for {
		select {
		case <-p.outbox:
		default:
			return
		}
	}
}
