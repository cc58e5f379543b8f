package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"DecodingDen/internal/state"
)

// Viewer follows a host's board. Snapshots are passed to apply in
// revision order; stale or repeated ones are dropped.
type Viewer struct {
	addr     string
	apply    func(state.Snapshot)
	mirror   state.Mirror
	dialer   *websocket.Dialer
	log      zerolog.Logger
	OnStatus func(string)

	// retry delays: the first after a drop, doubling up to maxBackoff
	backoff    time.Duration
	maxBackoff time.Duration
}

// NewViewer watches the share server at addr (host:port).
func NewViewer(addr string, apply func(state.Snapshot), log zerolog.Logger) *Viewer {
	return &Viewer{
		addr:   addr,
		apply:  apply,
		dialer: &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		log:    log.With().Str("component", "viewer").Str("host", addr).Logger(),

		backoff:    500 * time.Millisecond,
		maxBackoff: 10 * time.Second,
	}
}

// Run connects once and applies snapshots until the connection drops or
// ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	_, err := v.run(ctx)
	return err
}

// run reports whether a connection was made before it ended.
func (v *Viewer) run(ctx context.Context) (bool, error) {
	u := url.URL{Scheme: "ws", Host: v.addr, Path: "/ws"}
	conn, _, err := v.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return false, fmt.Errorf("connect to %s: %w", v.addr, err)
	}
	v.status("Connected to " + v.addr)
	v.log.Info().Msg("connected to host")

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})
	for {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return true, ctx.Err()
			}
			return true, fmt.Errorf("read from %s: %w", v.addr, err)
		}
		var snap state.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			v.log.Warn().Err(err).Msg("bad snapshot from host")
			continue
		}
		if !v.mirror.Apply(snap) {
			v.log.Debug().Uint64("revision", snap.Revision).Msg("stale snapshot dropped")
			continue
		}
		v.apply(snap)
	}
}

// Follow keeps reconnecting until ctx is done. Failed attempts back off
// up to 10s; a connection that was up starts the delay over.
func (v *Viewer) Follow(ctx context.Context) {
	var delay time.Duration
	for {
		connected, err := v.run(ctx)
		if ctx.Err() != nil {
			return
		}
		delay = v.retryDelay(delay, connected)
		v.log.Warn().Err(err).Dur("retry", delay).Msg("lost host")
		v.status(fmt.Sprintf("Disconnected, retrying: %v", err))
		if sleepCtx(ctx, delay) != nil {
			return
		}
	}
}

func (v *Viewer) retryDelay(prev time.Duration, connected bool) time.Duration {
	if connected || prev <= 0 {
		return v.backoff
	}
	return min(prev*2, v.maxBackoff)
}

func (v *Viewer) status(s string) {
	if v.OnStatus != nil {
		v.OnStatus(s)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
