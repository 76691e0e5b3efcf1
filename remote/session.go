package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/phanxgames/mapview"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 1 << 20
)

// Session is one websocket client driving its own Map. The Map is only
// touched by the run goroutine; the read pump hands it commands through a
// channel.
type Session struct {
	ID   string
	m    *mapview.Map
	conn *websocket.Conn
	log  *slog.Logger

	send      chan []byte
	commands  chan *Message
	frameRate int

	mu       sync.RWMutex
	frame    []byte
	frameSeq uint64
	width    int
	height   int

	cursor mapview.Cursor
}

func newSession(id string, m *mapview.Map, conn *websocket.Conn, frameRate int, log *slog.Logger) *Session {
	if frameRate <= 0 {
		frameRate = 30
	}
	s := &Session{
		ID:        id,
		m:         m,
		conn:      conn,
		log:       log.With("session", id),
		send:      make(chan []byte, 256),
		commands:  make(chan *Message, 64),
		frameRate: frameRate,
		cursor:    m.Cursor(),
	}
	m.OnPointClick(func(ev mapview.PointEvent) { s.emit(TypeClick, pointPayload(ev, false)) })
	m.OnPointHover(func(ev mapview.PointEvent) { s.emit(TypeHover, pointPayload(ev, false)) })
	m.OnPointMove(func(ev mapview.PointEvent) { s.emit(TypeMove, pointPayload(ev, true)) })
	m.OnImageError(func(ev mapview.ImageErrorEvent) {
		s.emit(TypeImageError, ErrorPayload{Message: ev.Err.Error(), Layer: ev.Layer, Source: ev.Source})
	})
	return s
}

// run owns the Map until ctx is done.
func (s *Session) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.frameRate))
	defer func() {
		ticker.Stop()
		s.m.Close()
	}()
	dt := 1 / float32(s.frameRate)

	for {
		select {
		case msg := <-s.commands:
			if err := s.handle(msg); err != nil {
				s.log.Warn("command rejected", "type", msg.Type, "error", err)
				s.emit(TypeError, ErrorPayload{Message: err.Error()})
			}
		case <-ticker.C:
			s.tick(dt)
		case <-ctx.Done():
			return
		}
	}
}

// tick advances the map and announces a new frame when one was drawn.
func (s *Session) tick(dt float32) {
	if s.m.Tick(dt) {
		s.publishFrame()
	}
	if c := s.m.Cursor(); c != s.cursor {
		s.cursor = c
		s.emit(TypeCursor, CursorPayload{Cursor: c.String()})
	}
}

func (s *Session) publishFrame() {
	var buf bytes.Buffer
	if err := s.m.EncodePNG(&buf); err != nil {
		s.log.Warn("encode frame", "error", err)
		return
	}
	w, h := s.m.Size()

	s.mu.Lock()
	s.frame = buf.Bytes()
	s.frameSeq++
	seq := s.frameSeq
	s.width, s.height = w, h
	s.mu.Unlock()

	s.emit(TypeFrame, FramePayload{
		Frame:  seq,
		Width:  w,
		Height: h,
		URL:    fmt.Sprintf("/sessions/%s/frame.png", s.ID),
	})
}

// Frame returns the last encoded frame and its sequence number.
func (s *Session) Frame() ([]byte, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.frameSeq
}

// handle applies one inbound command to the map.
func (s *Session) handle(msg *Message) error {
	switch msg.Type {
	case TypeResize:
		var p ResizePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		s.m.Resize(p.Width, p.Height, p.Ratio)
	case TypePointerDown, TypePointerMove, TypePointerUp, TypeWheel:
		var p PointerPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			s.m.PointerDown(p.X, p.Y)
		case TypePointerMove:
			s.m.PointerMove(p.X, p.Y)
		case TypePointerUp:
			s.m.PointerUp(p.X, p.Y)
		default:
			s.m.Wheel(p.X, p.Y, p.DeltaY)
		}
	case TypePointerLeave:
		s.m.PointerLeave()
	case TypeZoomIn:
		s.m.ZoomIn()
	case TypeZoomOut:
		s.m.ZoomOut()
	case TypeZoomFit:
		s.m.ZoomFit()
	case TypeToggleExtents:
		s.m.ToggleExtents()
	case TypeSetPoints:
		var p PointsPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		s.m.SetPoints(p.Groups, p.Reset)
	case TypeSelect:
		var p PointPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		if p.Index == nil {
			s.m.ClearSelection()
			return nil
		}
		if !s.m.SetSelected(p.ID, *p.Index) {
			return fmt.Errorf("no point %d in group %q", *p.Index, p.ID)
		}
	case TypeClearSelection:
		s.m.ClearSelection()
	case TypeSetYaw, TypeSetScaleY:
		var p ValuePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		if msg.Type == TypeSetYaw {
			s.m.SetSelectedPointYaw(p.Value)
		} else {
			s.m.SetSelectedPointScaleY(p.Value)
		}
	case TypeSetPosition:
		var p mapview.Vec2
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		s.m.SetSelectedPointPosition(p)
	case TypeSetAttribute:
		var p AttributePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return s.m.SetAttribute(p.Name, p.Value)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func decodePayload(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}

// emit queues an outbound message, dropping it if the client is too slow.
func (s *Session) emit(typ string, payload any) {
	msg, err := newMessage(typ, s.ID, payload)
	if err != nil {
		s.log.Error("marshal message", "type", typ, "error", err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("marshal message", "type", typ, "error", err)
		return
	}
	select {
	case s.send <- data:
	default:
		s.log.Warn("send buffer full, dropping message", "type", typ)
	}
}

// readPump decodes inbound messages and forwards them to run.
func (s *Session) readPump(ctx context.Context) {
	s.conn.SetReadLimit(maxMsgSize)
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			s.log.Debug("read error", "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn("invalid message", "error", err)
			continue
		}
		select {
		case s.commands <- &msg:
		case <-ctx.Done():
			return
		}
	}
}

// writePump sends queued messages and keeps the connection alive.
func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				s.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
