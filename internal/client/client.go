// Package client is a WebSocket client for the room server. Requests are
// correlated with responses by request id; everything else the server sends
// is delivered on Events.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/protocol"
)

var ErrClosed = errors.New("client closed")

const (
	eventBuffer = 256
	writeWait   = time.Second
)

// Membership is what a successful create or join returns.
type Membership struct {
	Room   core.RoomView   `json:"room"`
	Player core.PlayerView `json:"player"`
}

type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan protocol.Frame

	events    chan protocol.Frame
	seq       atomic.Uint64
	done      chan struct{}
	closeOnce sync.Once
	err       error
}

func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:    conn,
		pending: make(map[string]chan protocol.Frame),
		events:  make(chan protocol.Frame, eventBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events carries broadcasts and unsolicited frames. It is closed when the
// connection ends. Frames are dropped if the buffer is full.
func (c *Client) Events() <-chan protocol.Frame { return c.events }

// Done is closed when the connection ends; Err then reports why.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Client) Close() error {
	err := c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.shutdown(ErrClosed)
	return err
}

func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.err = err
		_ = c.conn.Close()
		close(c.done)
	})
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(err)
			return
		}
		f, err := protocol.DecodeFrame(data)
		if err != nil {
			log.Warn().Err(err).Str("module", "client").Msg("undecodable frame")
			continue
		}
		// responses, and pongs to ping intents, carry the request id
		if f.RequestID != "" {
			c.mu.Lock()
			ch, ok := c.pending[f.RequestID]
			delete(c.pending, f.RequestID)
			c.mu.Unlock()
			if ok {
				ch <- f
				continue
			}
		}
		select {
		case c.events <- f:
		default:
			log.Debug().Str("module", "client").Str("type", f.Type).Msg("event buffer full, dropping")
		}
	}
}

// Do sends one intent and waits for its response. A failed response is
// returned together with its error, which matches the core sentinels under
// errors.Is.
func (c *Client) Do(ctx context.Context, in protocol.Intent) (protocol.Frame, error) {
	id := strconv.FormatUint(c.seq.Add(1), 10)
	ch := make(chan protocol.Frame, 1)

	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	data, err := protocol.Encode(id, in)
	if err != nil {
		return protocol.Frame{}, err
	}
	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		return protocol.Frame{}, err
	}

	select {
	case f := <-ch:
		return f, f.Response().Err()
	case <-c.done:
		return protocol.Frame{}, c.err
	case <-ctx.Done():
		return protocol.Frame{}, ctx.Err()
	}
}

// Call is Do followed by decoding the response data into out.
func (c *Client) Call(ctx context.Context, in protocol.Intent, out any) error {
	f, err := c.Do(ctx, in)
	if err != nil {
		return err
	}
	if out == nil || len(f.Data) == 0 {
		return nil
	}
	return json.Unmarshal(f.Data, out)
}

func (c *Client) CreateRoom(ctx context.Context, nickname, roomName string) (Membership, error) {
	var m Membership
	err := c.Call(ctx, protocol.CreateRoom{Nickname: nickname, RoomName: roomName}, &m)
	return m, err
}

func (c *Client) Join(ctx context.Context, roomID, nickname string, spectator bool) (Membership, error) {
	var m Membership
	err := c.Call(ctx, protocol.JoinRoom{RoomID: roomID, Nickname: nickname, Spectator: spectator}, &m)
	return m, err
}

// JoinRoom joins without the spectator flag; it satisfies session.Joiner.
func (c *Client) JoinRoom(ctx context.Context, roomID, nickname string) error {
	_, err := c.Join(ctx, roomID, nickname, false)
	return err
}

func (c *Client) Leave(ctx context.Context) error {
	return c.Call(ctx, protocol.LeaveRoom{}, nil)
}

// Ping round-trips an application keepalive.
func (c *Client) Ping(ctx context.Context) error {
	f, err := c.Do(ctx, protocol.Ping{})
	if err != nil {
		return err
	}
	if f.Type != protocol.TypePong {
		return fmt.Errorf("unexpected %s frame to ping", f.Type)
	}
	return nil
}

func (c *Client) Sync(ctx context.Context) (core.RoomView, error) {
	var v core.RoomView
	err := c.Call(ctx, protocol.SyncRoom{}, &v)
	return v, err
}
