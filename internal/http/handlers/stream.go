package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pubsub"
)

const (
	streamWriteTimeout = 5 * time.Second
	streamPingInterval = 30 * time.Second
	maxClientFrame     = 4 << 10
)

// StreamHandler pushes order events to WebSocket clients.
type StreamHandler struct {
	logger       logx.Logger
	location     locationUsecase
	pingInterval time.Duration

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewStreamHandler wires a locationUsecase into the WebSocket endpoint.
func NewStreamHandler(logger logx.Logger, loc locationUsecase) *StreamHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &StreamHandler{
		logger:       logger,
		location:     loc,
		pingInterval: streamPingInterval,
		shutdown:     make(chan struct{}),
	}
}

// Shutdown closes every open stream with a going-away frame. Hijacked
// connections are invisible to http.Server.Shutdown, so register it with
// RegisterOnShutdown.
func (h *StreamHandler) Shutdown() {
	h.shutdownOnce.Do(func() { close(h.shutdown) })
}

func subscriberFromRequest(r *http.Request) (uuid.UUID, error) {
	if r.Header.Get(UserIDHeader) != "" {
		return actorFromRequest(r)
	}
	raw := strings.TrimSpace(r.URL.Query().Get("subscriber_id"))
	if raw == "" {
		return uuid.Nil, apperr.Invalid("missing " + UserIDHeader + " header")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Invalid("invalid subscriber_id")
	}
	return id, nil
}

// Stream handles GET /orders/{id}/stream. Authorization happens before the
// upgrade, so a refused subscriber gets a plain JSON error.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	subscriberID, err := subscriberFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	sub, err := h.location.Subscribe(r.Context(), orderID, subscriberID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	defer sub.Close()

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			logx.String("order_id", orderID.String()),
			logx.Err(err),
		)
		return
	}
	defer conn.Close()

	log := h.logger.With(
		logx.String("order_id", orderID.String()),
		logx.String("subscriber_id", subscriberID.String()),
	)
	log.Debug("stream opened")
	reason := h.pump(r.Context(), conn, sub)
	log.Debug("stream closed", logx.String("reason", reason))
}

// pump owns every write to conn; the read loop only hands pings over.
// It also returns when ctx is done.
func (h *StreamHandler) pump(ctx context.Context, conn net.Conn, sub *pubsub.Subscription) string {
	pings := make(chan []byte, 1)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		readClient(conn, pings)
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-sub.C():
			if !ok {
				closeStream(conn, ws.StatusPolicyViolation, "subscription ended")
				return "evicted"
			}
			body, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			if err := writeWithDeadline(conn, func() error { return wsutil.WriteServerText(conn, body) }); err != nil {
				return "write failed"
			}
		case p := <-pings:
			if err := writeWithDeadline(conn, func() error { return ws.WriteFrame(conn, ws.NewPongFrame(p)) }); err != nil {
				return "write failed"
			}
		case <-ticker.C:
			if err := writeWithDeadline(conn, func() error { return wsutil.WriteServerMessage(conn, ws.OpPing, nil) }); err != nil {
				return "write failed"
			}
		case <-readerDone:
			closeStream(conn, ws.StatusNormalClosure, "")
			return "client closed"
		case <-ctx.Done():
			closeStream(conn, ws.StatusGoingAway, "")
			return "request cancelled"
		case <-h.shutdown:
			closeStream(conn, ws.StatusGoingAway, "server shutting down")
			return "shutdown"
		}
	}
}

// readClient discards client data frames and returns on close or error.
func readClient(conn net.Conn, pings chan<- []byte) {
	for {
		hdr, err := ws.ReadHeader(conn)
		if err != nil {
			return
		}
		if hdr.Length > maxClientFrame {
			return
		}
		payload := make([]byte, hdr.Length)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		if hdr.Masked {
			ws.Cipher(payload, hdr.Mask, 0)
		}
		switch hdr.OpCode {
		case ws.OpClose:
			return
		case ws.OpPing:
			select {
			case pings <- payload:
			default:
			}
		}
	}
}

func writeWithDeadline(conn net.Conn, write func() error) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return err
	}
	return write()
}

func closeStream(conn net.Conn, code ws.StatusCode, reason string) {
	_ = writeWithDeadline(conn, func() error {
		return ws.WriteFrame(conn, ws.NewCloseFrame(ws.NewCloseFrameBody(code, reason)))
	})
}
