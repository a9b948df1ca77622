package ipc

import (
	"context"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(ctx context.Context, env Envelope) (*Envelope, error)

// Connection represents a single OpenRA host talking to the sidecar.
// The host is identified after the hello handshake.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	writeMu  sync.Mutex
	Client   string
	Logger   *slog.Logger // slog.Default() when nil
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// Send writes one envelope. It is safe to call from a handler while the
// read loop is blocked in it.
func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// ReadLoop blocks until the connection closes, errors or ctx is done. It
// owns the conn lifetime so callers don't need to track cleanup.
func (c *Connection) ReadLoop(ctx context.Context) {
	defer c.conn.Close()
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			c.logger().Info("connection read ended", "client", c.Client, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			c.logger().Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(ctx, env)
		if err != nil {
			c.logger().Error("handler error", "type", env.Type, "error", err)
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				c.logger().Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			c.logger().Info("sent response", "type", resp.Type, "client", c.Client)
		}
	}
}
