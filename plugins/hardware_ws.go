package plugins

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/linht/ax5031/ax5031"
)

// txSession is one websocket client streaming bytes into the transmit FIFO.
type txSession struct {
	ID      string
	Conn    *websocket.Conn
	Started time.Time
	Sent    int
}

// txReply is written back after each websocket message.
type txReply struct {
	Session string         `json:"session"`
	Sent    int            `json:"sent"`
	Total   int            `json:"total"`
	Status  *ax5031.Status `json:"status,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func (p *HardwarePlugin) registerSocket(api fiber.Router) {
	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws/transmit", websocket.New(p.handleTransmitSocket))
}

// handleTransmitSocket transmits the payload of every binary or text message,
// one FIFO write per byte. The device lock is held per message so REST calls
// can interleave between messages.
func (p *HardwarePlugin) handleTransmitSocket(c *websocket.Conn) {
	session := &txSession{
		ID:      uuid.New().String(),
		Conn:    c,
		Started: time.Now(),
	}
	p.sessionsMu.Lock()
	p.sessions[session.ID] = session
	p.sessionsMu.Unlock()
	defer p.closeSession(session.ID)

	slog.Info("Transmit session opened", "session", session.ID)

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}

		reply := txReply{Session: session.ID}
		err = p.withDevice(func(dev *ax5031.Dev) error {
			for _, b := range msg {
				st, err := dev.Transmit(b)
				if err != nil {
					return err
				}
				reply.Status = &st
				reply.Sent++
			}
			return nil
		})
		p.sessionsMu.Lock()
		session.Sent += reply.Sent
		reply.Total = session.Sent
		p.sessionsMu.Unlock()
		if err != nil {
			slog.Error("Transmit session error", "session", session.ID, "error", err)
			reply.Error = err.Error()
		}
		if err := c.WriteJSON(reply); err != nil {
			return
		}
	}
}

func (p *HardwarePlugin) closeSession(id string) {
	p.sessionsMu.Lock()
	defer p.sessionsMu.Unlock()
	p.closeSessionUnsafe(id)
}

func (p *HardwarePlugin) closeSessionUnsafe(id string) {
	session, ok := p.sessions[id]
	if !ok {
		return
	}
	session.Conn.Close()
	delete(p.sessions, id)
	slog.Info("Transmit session closed", "session", id, "sent", session.Sent,
		"duration", time.Since(session.Started))
}

func (p *HardwarePlugin) closeSessions() {
	p.sessionsMu.Lock()
	defer p.sessionsMu.Unlock()
	for id := range p.sessions {
		p.closeSessionUnsafe(id)
	}
}
