// FILE: lixenwraith/layercfg/register.go
package layercfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Parser turns raw resource content into a configuration tree.
type Parser interface {
	Parse(data []byte) (any, error)
}

// ParserFunc adapts an ordinary function to the Parser interface.
type ParserFunc func(data []byte) (any, error)

// Parse calls f(data).
func (f ParserFunc) Parse(data []byte) (any, error) {
	return f(data)
}

// Registry maps a resource kind (file extension without the dot) to a Parser.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// DefaultRegistry returns a registry with the built-in toml, json and yaml
// parsers, plus the tml and yml aliases.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("toml", ParserFunc(parseTOML))
	r.Register("json", ParserFunc(parseJSON))
	r.Register("yaml", ParserFunc(parseYAML))
	// Aliases of built-in kinds cannot fail
	_ = r.Alias("tml", "toml")
	_ = r.Alias("yml", "yaml")
	return r
}

// Register binds kind to parser, replacing any previous binding.
// Kinds are case-insensitive and a leading dot is ignored (".TOML" == "toml").
func (r *Registry) Register(kind string, parser Parser) error {
	kind = normalizeKind(kind)
	if kind == "" {
		return fmt.Errorf("register: kind cannot be empty")
	}
	if parser == nil {
		return fmt.Errorf("register %q: parser cannot be nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[kind] = parser
	return nil
}

// Alias makes alias behave exactly like kind by pointing it at the parser
// currently registered for kind. Re-registering kind later does not move the alias.
func (r *Registry) Alias(alias, kind string) error {
	alias = normalizeKind(alias)
	kind = normalizeKind(kind)
	if alias == "" {
		return fmt.Errorf("alias: name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	parser, ok := r.parsers[kind]
	if !ok {
		return fmt.Errorf("alias %q: %w: %q", alias, ErrUnsupportedFormat, kind)
	}
	r.parsers[alias] = parser
	return nil
}

// Parser returns the parser registered for kind.
func (r *Registry) Parser(kind string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[normalizeKind(kind)]
	return p, ok
}

// Parse decodes data using the parser registered for kind.
// It fails with ErrUnsupportedFormat for unknown kinds and *ParseError when
// the parser rejects the content.
func (r *Registry) Parse(kind string, data []byte) (any, error) {
	parser, ok := r.Parser(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	tree, err := parser.Parse(data)
	if err != nil {
		return nil, &ParseError{Kind: normalizeKind(kind), Err: err}
	}
	return normalizeTree(tree), nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(kind), "."))
}

func parseTOML(data []byte) (any, error) {
	tree := make(map[string]any)
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func parseJSON(data []byte) (any, error) {
	var tree any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Preserve number precision
	if err := decoder.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func parseYAML(data []byte) (any, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	if tree == nil {
		// Comment-only documents decode to nil
		return map[string]any{}, nil
	}
	return tree, nil
}
