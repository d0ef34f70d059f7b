package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/behave/internal/config"
	"github.com/zeusync/behave/internal/core/bt"
	"github.com/zeusync/behave/internal/core/bt/loader"
	"github.com/zeusync/behave/internal/core/observability/log"
	"github.com/zeusync/behave/pkg/concurrent"
	"github.com/zeusync/behave/pkg/generic"
)

var (
	ErrUnknownTree = errors.New("host: unknown tree")
	ErrClosed      = errors.New("host: closed")
)

// Result is what one tree returned during a frame.
type Result struct {
	ID        uuid.UUID
	Name      string
	Ret       bt.Ret
	Restarted bool
	Done      bool
}

type instance struct {
	id   uuid.UUID
	tree *bt.Tree
	def  *shared
	runs int
	done bool
}

// shared is a compiled definition reused by every tree with the same shape.
type shared struct {
	compiled *loader.Compiled
	refs     int
}

// Host owns many trees and ticks all of them once per frame. The trees and
// the allocator they draw from are only touched with mu held, so a frame and
// a Spawn from another goroutine never overlap.
type Host struct {
	mu      sync.Mutex
	alloc   *bt.Allocator
	reg     *bt.Registry
	logger  log.Log
	cfg     config.Config
	clock   func() time.Time
	bind    func() bt.Bindings
	trees   map[uuid.UUID]*instance
	order   []uuid.UUID
	shapes  map[uint64]*shared
	frames  uint64
	closed  bool
	results []Result
}

type Option func(*Host)

// WithBindings gives every spawned tree its own bindings. Bindings passed to
// Spawn take precedence.
func WithBindings(bind func() bt.Bindings) Option {
	return func(h *Host) { h.bind = bind }
}

// WithClock replaces the clock handed to every spawned tree.
func WithClock(clock func() time.Time) Option {
	return func(h *Host) { h.clock = clock }
}

func New(alloc *bt.Allocator, reg *bt.Registry, logger log.Log, cfg config.Config, opts ...Option) *Host {
	if logger == nil {
		logger = log.NewNop()
	}
	h := &Host{
		alloc:  alloc,
		reg:    reg,
		logger: logger.Named("host"),
		cfg:    cfg,
		clock:  time.Now,
		trees:  make(map[uuid.UUID]*instance),
		shapes: make(map[uint64]*shared),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Spawn builds a tree from def and schedules it from the next frame on.
// Definitions with the same shape share one compiled set of processes.
func (h *Host) Spawn(def *loader.Definition, opts ...bt.Option) (uuid.UUID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return uuid.Nil, ErrClosed
	}

	if err := def.Normalize(); err != nil {
		return uuid.Nil, fmt.Errorf("host: spawn %s: %w", def.Name, err)
	}
	key := def.ShapeKey()
	s, ok := h.shapes[key]
	if !ok {
		compiled, err := def.Compile(h.reg)
		if err != nil {
			return uuid.Nil, fmt.Errorf("host: spawn %s: %w", def.Name, err)
		}
		s = &shared{compiled: compiled}
		h.shapes[key] = s
	}

	id := uuid.New()
	logger := h.logger.With(log.String("tree_id", id.String()))
	base := []bt.Option{bt.WithName(def.Name), bt.WithClock(h.clock), bt.WithLogger(logger)}
	if h.bind != nil {
		base = append(base, bt.WithBindings(h.bind()))
	}
	opts = append(base, opts...)
	tree, err := s.compiled.Build(h.alloc, opts...)
	if err != nil {
		if s.refs == 0 {
			h.dropShape(key, s)
		}
		return uuid.Nil, fmt.Errorf("host: spawn %s: %w", def.Name, err)
	}
	s.refs++

	h.trees[id] = &instance{id: id, tree: tree, def: s}
	h.order = append(h.order, id)
	logger.Info("tree spawned", log.String("tree", tree.Name()), log.Int("nodes", s.compiled.Count()))
	return id, nil
}

// SpawnConfigured loads every tree listed in the host config, reading the
// files concurrently, and spawns them in config order.
func (h *Host) SpawnConfigured(ctx context.Context, opts ...bt.Option) ([]uuid.UUID, error) {
	defs, err := concurrent.Map(ctx, h.cfg.Trees, 4, func(_ context.Context, tc config.TreeConfig) (*loader.Definition, error) {
		def, err := loader.LoadFile(tc.File)
		if err != nil {
			return nil, err
		}
		if tc.Name != "" {
			def.Name = tc.Name
		}
		return def, nil
	})
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for i, def := range defs {
		for n, k := max(h.cfg.Trees[i].Count, 1), 0; k < n; k++ {
			id, err := h.Spawn(def, opts...)
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Frame ticks every live tree exactly once, in spawn order. Trees that finish
// are restarted or retired according to the restart policy. The returned slice
// is reused by the next call.
func (h *Host) Frame() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.frames++
	h.results = h.results[:0]
	for _, id := range h.order {
		inst := h.trees[id]
		if inst.done {
			continue
		}
		ret := inst.tree.TickRun()
		res := Result{ID: id, Name: inst.tree.Name(), Ret: ret}
		if ret != bt.Running {
			inst.runs++
			if h.restart(ret) {
				inst.tree.Reset()
				res.Restarted = true
				inst.tree.Context().Logger().Debug("tree restarted", log.Stringer("ret", ret), log.Int("runs", inst.runs))
			} else {
				inst.done = true
				res.Done = true
				inst.tree.Context().Logger().Info("tree finished", log.Stringer("ret", ret), log.Int("runs", inst.runs))
			}
		}
		h.results = append(h.results, res)
	}
	return h.results
}

func (h *Host) restart(ret bt.Ret) bool {
	switch h.cfg.Restart {
	case config.RestartAlways:
		return true
	case config.RestartOnSuccess:
		return ret == bt.Success
	case config.RestartOnFail:
		return ret == bt.Fail || ret == bt.Abort
	default:
		return false
	}
}

// Run drives frames at the configured frame rate until ctx is done, max_frames
// frames have run or every tree has finished.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.cfg.FrameInterval())
	defer ticker.Stop()

	h.logger.Info("host running",
		log.Int("frame_rate", h.cfg.FrameRate),
		log.Int("trees", h.Len()),
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.Frame()
			if h.cfg.MaxFrames > 0 && h.Frames() >= h.cfg.MaxFrames {
				h.logger.Info("frame limit reached", log.Int64("frames", int64(h.Frames())))
				return nil
			}
			if h.Live() == 0 {
				h.logger.Info("every tree finished", log.Int64("frames", int64(h.Frames())))
				return nil
			}
		}
	}
}

// Tree returns the tree behind id. It must not be ticked directly.
func (h *Host) Tree(id uuid.UUID) (*bt.Tree, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.trees[id]
	if !ok {
		return nil, false
	}
	return inst.tree, true
}

// Despawn clears the tree and gives its nodes back to the allocator.
func (h *Host) Despawn(id uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.trees[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTree, id)
	}
	h.despawn(inst)
	for i, other := range h.order {
		if other == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return nil
}

func (h *Host) despawn(inst *instance) {
	inst.tree.Clear()
	delete(h.trees, inst.id)
	inst.def.refs--
	if inst.def.refs == 0 {
		h.dropShape(inst.def.compiled.ShapeKey(), inst.def)
	}
	h.logger.Debug("tree despawned", log.String("tree_id", inst.id.String()))
}

func (h *Host) dropShape(key uint64, s *shared) {
	s.compiled.Close()
	delete(h.shapes, key)
}

// Close despawns every tree. The host rejects spawns afterwards.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, id := range h.order {
		h.despawn(h.trees[id])
	}
	h.order = nil
	h.closed = true
}

// Len is the number of spawned trees, finished or not.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.trees)
}

// Live is the number of trees still being ticked.
func (h *Host) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, inst := range h.trees {
		if !inst.done {
			n++
		}
	}
	return n
}

func (h *Host) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Shapes is the number of distinct compiled definitions in use.
func (h *Host) Shapes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.shapes)
}

// PoolStats reports the allocator counters.
func (h *Host) PoolStats() map[string]generic.PoolStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alloc.Stats()
}
