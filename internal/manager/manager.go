// Package manager owns the stylizer instances the daemon serves: it resolves
// model ids against the registry, lazily constructs one FaceStylizer per
// bundle, and serializes calls on each instance.
package manager

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stylizerd/pkg/stylizer"
	"stylizerd/pkg/types"
)

// Stylizer is the slice of the facade the manager drives. Satisfied by
// *stylizer.FaceStylizer; narrowed to an interface so tests can substitute
// the engine-backed implementation.
type Stylizer interface {
	StylizeContext(ctx context.Context, img *stylizer.Image) (*stylizer.Result, error)
	OutputSize() int
	Close() error
}

// newStylizer constructs the facade for a bundle path. Package variable so
// tests can inject a fake.
var newStylizer = func(opts stylizer.Options) (Stylizer, error) {
	return stylizer.New(opts)
}

// Config captures manager construction parameters.
type Config struct {
	Registry     []types.Model
	DefaultModel string
	// Threads passed to engine runtimes that support it.
	Threads int
	Logger  *zerolog.Logger
}

// Manager maps model ids to loaded stylizer instances.
type Manager struct {
	mu           sync.RWMutex
	registry     []types.Model
	defaultModel string
	threads      int
	instances    map[string]*instance
	lastErr      string
	loadsTotal   uint64
	startedAt    time.Time
	log          zerolog.Logger
	closed       bool
}

// instance wraps one FaceStylizer. callMu serializes stylize calls because a
// FaceStylizer is not guaranteed safe for concurrent invocation.
type instance struct {
	modelID  string
	styl     Stylizer
	outSize  int
	callMu   sync.Mutex
	lastUsed time.Time
	requests uint64
	stylized uint64
}

// New constructs a manager over a loaded registry.
func New(cfg Config) *Manager {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Manager{
		registry:     append([]types.Model(nil), cfg.Registry...),
		defaultModel: cfg.DefaultModel,
		threads:      cfg.Threads,
		instances:    make(map[string]*instance),
		startedAt:    time.Now(),
		log:          logger,
	}
}

// Ready reports whether the manager can serve requests: the registry must be
// non-empty and the manager not closed.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.closed && len(m.registry) > 0
}

// ListModels returns a copy of the registry.
func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// StylizeImage resolves modelID (empty means the configured default), ensures
// an instance for it, and runs one stylization call. Calls against the same
// instance are serialized; the returned result holds a caller-owned copy.
func (m *Manager) StylizeImage(ctx context.Context, modelID string, img *stylizer.Image) (*stylizer.Result, error) {
	inst, err := m.ensure(modelID)
	if err != nil {
		return nil, err
	}

	reqID := uuid.NewString()
	start := time.Now()
	m.log.Debug().Str("request_id", reqID).Str("model", inst.modelID).Msg("stylize start")

	inst.callMu.Lock()
	res, err := inst.styl.StylizeContext(ctx, img)
	inst.callMu.Unlock()

	m.mu.Lock()
	inst.lastUsed = time.Now()
	inst.requests++
	if err != nil {
		m.lastErr = err.Error()
	} else if res.StylizedImage != nil {
		inst.stylized++
	}
	m.mu.Unlock()

	outcome := outcomeLabel(res, err)
	stylizationsTotal.WithLabelValues(inst.modelID, outcome).Inc()
	stylizationDuration.WithLabelValues(inst.modelID).Observe(time.Since(start).Seconds())
	m.log.Debug().Str("request_id", reqID).Str("model", inst.modelID).
		Str("outcome", outcome).Dur("dur", time.Since(start)).Msg("stylize end")
	return res, err
}

// ensure returns the instance for modelID, constructing it on first use.
func (m *Manager) ensure(modelID string) (*instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrManagerClosed()
	}
	if modelID == "" {
		modelID = m.defaultModel
		if modelID == "" {
			return nil, ErrModelNotFound("(unspecified)")
		}
	}
	if inst, ok := m.instances[modelID]; ok {
		return inst, nil
	}
	var model *types.Model
	for i := range m.registry {
		if m.registry[i].ID == modelID {
			model = &m.registry[i]
			break
		}
	}
	if model == nil {
		return nil, ErrModelNotFound(modelID)
	}
	styl, err := newStylizer(stylizer.Options{ModelPath: model.Path, Threads: m.threads})
	if err != nil {
		m.lastErr = err.Error()
		return nil, err
	}
	inst := &instance{
		modelID:  modelID,
		styl:     styl,
		outSize:  styl.OutputSize(),
		lastUsed: time.Now(),
	}
	m.instances[modelID] = inst
	m.loadsTotal++
	m.log.Info().Str("model", modelID).Int("output_size", inst.outSize).Msg("stylizer instance loaded")
	return inst, nil
}

// Close releases all loaded instances. Further calls fail.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	var firstErr error
	for id, inst := range m.instances {
		if err := inst.styl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.instances, id)
	}
	return firstErr
}

func outcomeLabel(res *stylizer.Result, err error) string {
	switch {
	case err != nil:
		return "error"
	case res == nil || res.StylizedImage == nil:
		return "no_face"
	default:
		return "stylized"
	}
}
