package api

import (
	"context"
	"net/http"
	"time"

	"HodlCalc/internal/domain/models"
	xlogger "HodlCalc/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// CurrentPricer returns the live price quote.
type CurrentPricer interface {
	Current(ctx context.Context) (models.PriceQuote, error)
}

// StreamConfig controls the live price WebSocket.
type StreamConfig struct {
	Interval     time.Duration
	PingInterval time.Duration
	WriteTimeout time.Duration
}

type streamMessage struct {
	Type  string             `json:"type"`
	Quote *models.PriceQuote `json:"quote,omitempty"`
	Error string             `json:"error,omitempty"`
}

// PriceStreamHandler pushes the current price to WebSocket clients.
type PriceStreamHandler struct {
	logger   *xlogger.Logger
	prices   CurrentPricer
	cfg      StreamConfig
	upgrader websocket.Upgrader
}

func NewPriceStreamHandler(logger *xlogger.Logger, prices CurrentPricer, cfg StreamConfig) *PriceStreamHandler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 20 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &PriceStreamHandler{
		logger: logger,
		prices: prices,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Stream upgrades the request and sends a quote immediately, then every
// Interval until the client goes away.
func (h *PriceStreamHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("price stream upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// read loop: only control frames are expected; any error ends the stream
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.cfg.Interval)
	defer ticker.Stop()
	ping := time.NewTicker(h.cfg.PingInterval)
	defer ping.Stop()

	if err := h.push(ctx, conn); err != nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.cfg.WriteTimeout))
			return nil
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.cfg.WriteTimeout)); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := h.push(ctx, conn); err != nil {
				return nil
			}
		}
	}
}

func (h *PriceStreamHandler) push(ctx context.Context, conn *websocket.Conn) error {
	msg := streamMessage{Type: "price"}
	q, err := h.prices.Current(ctx)
	if err != nil {
		h.logger.Warn("price stream lookup failed", xlogger.Error(err))
		msg = streamMessage{Type: "error", Error: "price unavailable"}
	} else {
		msg.Quote = &q
	}

	_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("price stream write failed", xlogger.Error(err))
		return err
	}
	return nil
}
