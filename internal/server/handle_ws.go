package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/playperu/gruppenspiel/internal/engine"
)

const wsWriteTimeout = 5 * time.Second

// handleWSState streams state events to a display over a WebSocket. The
// feed is one-way; anything the client sends is discarded.
func handleWSState(logger *slog.Logger, broker *Broker, host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		ctx := conn.CloseRead(r.Context())

		if err := writeFrame(ctx, conn, snapshotEvent(host)); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				logger.Debug("websocket feed ended", "error", ctx.Err())
				return
			case data := <-ch:
				if err := writeFrame(ctx, conn, data); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
