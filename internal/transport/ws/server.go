package ws

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	plog "worldnoise/internal/persistence/log"
	"worldnoise/internal/protocol"
	"worldnoise/internal/terrain/gen"
	"worldnoise/internal/terrain/tuning"
)

// MaxMessageBytes bounds a single client frame.
const MaxMessageBytes = 1 << 20

type Server struct {
	cfg     tuning.Config
	log     *log.Logger
	samples *plog.SampleLogger

	nextSession atomic.Uint64
	upgrader    websocket.Upgrader
}

// NewServer serves the layers of cfg. samples may be nil.
func NewServer(cfg tuning.Config, logger *log.Logger, samples *plog.SampleLogger) *Server {
	s := &Server{
		cfg:     cfg,
		log:     logger,
		samples: samples,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

// session owns one connection's layers. Layers carry caches and are never
// shared between connections.
type session struct {
	id     string
	seed   int64
	layers map[string]gen.Layer
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadLimit(MaxMessageBytes)

		sess := s.handshake(conn)
		if sess == nil {
			return
		}
		s.logf("session %s open seed=%d layers=%d", sess.id, sess.seed, len(sess.layers))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		out := make(chan []byte, 8)

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			resp := s.handle(sess, msg)
			b, err := json.Marshal(resp)
			if err != nil {
				b, _ = json.Marshal(protocol.NewError("", protocol.ErrInternal, err.Error()))
			}
			select {
			case out <- b:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
		s.logf("session %s closed", sess.id)
	}
}

func (s *Server) handshake(conn *websocket.Conn) *session {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return nil
	}

	cfg := s.cfg
	if hello.Seed != nil {
		cfg.Seed = *hello.Seed
	}
	layers, err := gen.NewLayers(cfg)
	if err != nil {
		s.logf("build layers: %v", err)
		_ = writeJSON(conn, protocol.NewError("", protocol.ErrInternal, err.Error()))
		return nil
	}
	sess := &session{
		id:     fmt.Sprintf("S%d", s.nextSession.Add(1)),
		seed:   cfg.Seed,
		layers: layers,
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sess.id,
		Seed:            sess.seed,
	}
	for _, spec := range cfg.Layers {
		welcome.Layers = append(welcome.Layers, protocol.LayerRef{Name: spec.Name, Kind: spec.Kind, Octaves: spec.Octaves})
	}
	sort.Slice(welcome.Layers, func(i, j int) bool { return welcome.Layers[i].Name < welcome.Layers[j].Name })
	if err := writeJSON(conn, welcome); err != nil {
		return nil
	}
	return sess
}

// handle answers one request frame. It always returns a message to send.
func (s *Server) handle(sess *session, msg []byte) any {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "malformed json")
	}
	if base.ProtocolVersion != protocol.Version {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "bad protocol_version")
	}
	switch base.Type {
	case protocol.TypeSample:
		var req protocol.SampleReq
		if err := json.Unmarshal(msg, &req); err != nil {
			return protocol.NewError("", protocol.ErrBadRequest, err.Error())
		}
		return s.handleSample(sess, req)
	case protocol.TypeGrid:
		var req protocol.GridReq
		if err := json.Unmarshal(msg, &req); err != nil {
			return protocol.NewError("", protocol.ErrBadRequest, err.Error())
		}
		return s.handleGrid(sess, req)
	}
	return protocol.NewError("", protocol.ErrProtoBadRequest, "unexpected type "+base.Type)
}

func (s *Server) handleSample(sess *session, req protocol.SampleReq) any {
	l, ok := sess.layers[req.Layer]
	if !ok {
		return protocol.NewError(req.ID, protocol.ErrUnknownLayer, "unknown layer "+req.Layer)
	}
	if len(req.Points) > protocol.MaxPoints {
		return protocol.NewError(req.ID, protocol.ErrTooLarge, fmt.Sprintf("%d points exceeds %d", len(req.Points), protocol.MaxPoints))
	}
	resp := protocol.SampleResp{
		Type:            protocol.TypeSampleResult,
		ProtocolVersion: protocol.Version,
		ID:              req.ID,
		Layer:           req.Layer,
		Values:          make([]float64, 0, len(req.Points)),
	}
	cl, isCell := l.(gen.CellLayer)
	for _, p := range req.Points {
		resp.Values = append(resp.Values, l.Sample(p[0], p[1], p[2]))
		if isCell {
			c := cl.Cell(p[0], p[1], p[2])
			resp.Cells = append(resp.Cells, [3]int32{c.X, c.Y, c.Z})
		}
	}
	return resp
}

func (s *Server) handleGrid(sess *session, req protocol.GridReq) any {
	l, ok := sess.layers[req.Layer]
	if !ok {
		return protocol.NewError(req.ID, protocol.ErrUnknownLayer, "unknown layer "+req.Layer)
	}
	g, err := gen.Sample(l, gen.GridRequest{X0: req.X0, Z0: req.Z0, Y: req.Y, W: req.W, H: req.H, Step: req.Step})
	if errors.Is(err, gen.ErrGridTooLarge) {
		return protocol.NewError(req.ID, protocol.ErrTooLarge, err.Error())
	}
	if err != nil {
		return protocol.NewError(req.ID, protocol.ErrBadRequest, err.Error())
	}
	digest := g.Digest()
	resp := protocol.GridResp{
		Type:            protocol.TypeGridResult,
		ProtocolVersion: protocol.Version,
		ID:              req.ID,
		Layer:           g.Layer,
		Kind:            g.Kind,
		W:               g.Req.W,
		H:               g.Req.H,
		Step:            g.Req.Step,
		Values:          g.Values,
		Digest:          hex.EncodeToString(digest[:]),
	}
	for _, c := range g.Cells {
		resp.Cells = append(resp.Cells, [3]int32{c.X, c.Y, c.Z})
	}
	if s.samples != nil {
		lo, hi := g.Range()
		err := s.samples.WriteSample(plog.SampleEntry{
			Time:   time.Now().UTC().Format(time.RFC3339Nano),
			Layer:  g.Layer,
			Kind:   g.Kind,
			Seed:   sess.seed,
			X0:     g.Req.X0,
			Z0:     g.Req.Z0,
			Y:      g.Req.Y,
			W:      g.Req.W,
			H:      g.Req.H,
			Step:   g.Req.Step,
			Min:    lo,
			Max:    hi,
			Digest: resp.Digest,
		})
		if err != nil {
			s.logf("sample log: %v", err)
		}
	}
	return resp
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
