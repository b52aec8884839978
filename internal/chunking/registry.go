package chunking

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/docquery/internal/chunking/character"
	"github.com/custodia-labs/docquery/internal/chunking/token"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

// BuilderFunc constructs a chunk stage from a generic config map.
type BuilderFunc func(cfg map[string]any) (driven.ChunkStage, error)

// Registry maps stage names to builders so pipelines can be assembled
// from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a builder under the given name, replacing any previous
// registration.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Has reports whether a builder is registered under the given name.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered stage names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named stage with the given config.
func (r *Registry) Build(name string, cfg map[string]any) (driven.ChunkStage, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown chunk stage: %s", name)
	}
	return builder(cfg)
}

// RegisterDefaults registers the built-in stages.
func (r *Registry) RegisterDefaults() {
	r.Register("character", buildCharacter)
	r.Register("token", buildToken)
}

func buildCharacter(cfg map[string]any) (driven.ChunkStage, error) {
	opts := []character.Option{}
	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, character.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "chunk_overlap"); ok {
		opts = append(opts, character.WithOverlap(overlap))
	}
	return character.New(opts...), nil
}

func buildToken(cfg map[string]any) (driven.ChunkStage, error) {
	opts := []token.Option{}
	if budget, ok := getIntFromConfig(cfg, "token_budget"); ok {
		opts = append(opts, token.WithBudget(budget))
	}
	return token.New(opts...), nil
}

// getIntFromConfig reads an integer config value, tolerating the
// numeric types TOML and JSON decoders produce.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	value, ok := cfg[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
