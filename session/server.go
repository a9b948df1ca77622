// Package session serves map generation over the sidecar socket: one
// ipc.Connection per host, progress envelopes while a map is built and a
// result cache shared by all connections.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nstehr/vimy/vimy-mapgen/ipc"
	"github.com/nstehr/vimy/vimy-mapgen/mapgen"
	"github.com/nstehr/vimy/vimy-mapgen/model"
	"github.com/nstehr/vimy/vimy-mapgen/region"
	"github.com/nstehr/vimy/vimy-mapgen/tiling"
	"github.com/nstehr/vimy/vimy-mapgen/zones"
)

// Server answers hello and generate envelopes. Connections are handled
// concurrently; each run has its own PRNG so they never interfere.
type Server struct {
	Generator *mapgen.Generator
	Defaults  model.Params // base for every request
	Cache     *Cache       // optional
	// GridCols and GridRows size the coarse terrain grid sent with each
	// map. Zero leaves it out.
	GridCols, GridRows int
	Logger             *slog.Logger // slog.Default() when nil
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Serve accepts connections until ctx is done, then waits for open
// connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger().Error("failed to accept connection", "error", err)
			continue
		}
		s.logger().Info("new connection accepted")
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Handle(ctx, conn)
		}()
	}
}

// Handle runs one connection until it closes.
func (s *Server) Handle(ctx context.Context, conn net.Conn) {
	c := ipc.NewConnection(conn, nil)
	c.Logger = s.logger()
	c.RegisterHandler(ipc.TypeHello, s.handleHello(c))
	c.RegisterHandler(ipc.TypeGenerate, s.handleGenerate(c))
	c.ReadLoop(ctx)
}

func (s *Server) handleHello(c *ipc.Connection) ipc.Handler {
	return func(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
		var hello ipc.HelloMessage
		if err := env.Decode(&hello); err != nil {
			return nil, err
		}
		c.Client = hello.Client
		s.logger().Info("host connected", "client", hello.Client, "version", hello.Version)

		resp, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{
			Status:  "ok",
			Tileset: s.Generator.Catalog.Name(),
			Presets: model.PresetNames(),
		})
		if err != nil {
			return nil, err
		}
		return &resp, nil
	}
}

// params lays the request over the server defaults.
func (s *Server) params(req ipc.GenerateRequest) (model.Params, error) {
	p := s.Defaults
	if req.Preset != "" {
		var err error
		if p, err = model.Preset(req.Preset, p); err != nil {
			return model.Params{}, err
		}
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return model.Params{}, fmt.Errorf("params: %w", err)
		}
	}
	return p, nil
}

func (s *Server) handleGenerate(c *ipc.Connection) ipc.Handler {
	return func(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
		var req ipc.GenerateRequest
		if err := env.Decode(&req); err != nil {
			return errorEnvelope("", ipc.CodeBadRequest, err)
		}
		id := req.RequestID
		if id == "" {
			id = uuid.NewString()
		}
		log := s.logger().With("requestID", id, "client", c.Client)

		p, err := s.params(req)
		if err != nil {
			return errorEnvelope(id, ipc.CodeBadRequest, err)
		}
		tileset := s.Generator.Catalog.Name()
		if m, ok := s.Cache.Get(tileset, p); ok {
			log.Info("serving cached map", "seed", p.Seed)
			return s.mapEnvelope(id, p, m, true)
		}

		gen := *s.Generator
		gen.Logger = log
		gen.Hook = func(cp mapgen.Checkpoint) {
			err := c.Send(ipc.TypeProgress, ipc.ProgressMessage{
				RequestID: id,
				Stage:     string(cp.Stage),
				Step:      cp.Step,
				Steps:     cp.Steps,
				ElapsedMS: cp.Elapsed.Milliseconds(),
				Stats:     cp.Stats,
			})
			if err != nil {
				log.Warn("failed to send progress", "stage", cp.Stage, "error", err)
			}
		}

		start := time.Now()
		m, err := gen.Generate(ctx, p)
		if err != nil {
			code := ErrorCode(err)
			log.Warn("generation failed", "code", code, "error", err)
			return errorEnvelope(id, code, err)
		}
		p.Seed = m.Seed
		s.Cache.Set(tileset, p, m)
		log.Info("map ready", "seed", m.Seed, "elapsed", time.Since(start))
		return s.mapEnvelope(id, p, m, false)
	}
}

func (s *Server) mapEnvelope(id string, p model.Params, m *model.Map, cached bool) (*ipc.Envelope, error) {
	msg := ipc.MapMessage{RequestID: id, Cached: cached, Params: p, Map: m}
	if s.GridCols > 0 && s.GridRows > 0 {
		msg.Terrain = ipc.NewTerrainData(model.Coarsen(m, s.GridCols, s.GridRows))
	}
	env, err := ipc.NewEnvelope(ipc.TypeMap, msg)
	if err != nil {
		return nil, err
	}
	return &env, nil
}

func errorEnvelope(id, code string, cause error) (*ipc.Envelope, error) {
	env, err := ipc.NewEnvelope(ipc.TypeError, ipc.ErrorMessage{RequestID: id, Code: code, Message: cause.Error()})
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// ErrorCode classifies a generation error for the host.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, mapgen.ErrInvalidParams):
		return ipc.CodeInvalidParams
	case errors.Is(err, tiling.ErrUnsatisfiable),
		errors.Is(err, region.ErrNoObstacle),
		errors.Is(err, zones.ErrProjection):
		return ipc.CodeUnsatisfiable
	case errors.Is(err, zones.ErrNoRoom):
		return ipc.CodeNoRoom
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ipc.CodeCancelled
	}
	return ipc.CodeInternal
}
