// FILE: lixenwraith/layercfg/resource.go
package layercfg

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// ResourceType identifies how a resource location is interpreted.
type ResourceType int

const (
	// ResourceFile is an explicit filesystem path
	ResourceFile ResourceType = iota
	// ResourceNamed is a bare name resolved through a Locator search path
	ResourceNamed
	// ResourceURL is fetched over http(s), or read from disk for file:// URLs
	ResourceURL
)

func (t ResourceType) String() string {
	switch t {
	case ResourceFile:
		return "file"
	case ResourceNamed:
		return "named"
	case ResourceURL:
		return "url"
	default:
		return "unknown"
	}
}

// Resource describes one configuration source. It is a comparable value:
// two resources are the same source exactly when they are ==.
type Resource struct {
	Type     ResourceType
	Location string
	// Kind overrides the format inferred from Location when non-empty
	Kind string
	// Optional resources that cannot be found are skipped instead of failing the load
	Optional bool
}

// File describes a resource read from an explicit filesystem path.
func File(path string) Resource {
	return Resource{Type: ResourceFile, Location: path}
}

// Named describes a resource located by name on the loader's search path.
func Named(name string) Resource {
	return Resource{Type: ResourceNamed, Location: name}
}

// URL describes a resource fetched from a URL.
func URL(rawURL string) Resource {
	return Resource{Type: ResourceURL, Location: rawURL}
}

// WithKind returns a copy of r with an explicit format kind.
func (r Resource) WithKind(kind string) Resource {
	r.Kind = normalizeKind(kind)
	return r
}

// AsOptional returns a copy of r that is skipped when not found.
func (r Resource) AsOptional() Resource {
	r.Optional = true
	return r
}

// ResolvedKind returns the explicit kind, or the lowercased segment after the
// last '.' of the location's final path element. It is empty when neither exists.
func (r Resource) ResolvedKind() string {
	if r.Kind != "" {
		return normalizeKind(r.Kind)
	}

	name := r.Location
	if r.Type == ResourceURL {
		if u, err := url.Parse(r.Location); err == nil {
			name = u.Path
		}
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return normalizeKind(name[idx+1:])
}

func (r Resource) String() string {
	var b strings.Builder
	b.WriteString(r.Type.String())
	b.WriteString(":")
	b.WriteString(r.Location)
	if r.Kind != "" {
		b.WriteString(" (")
		b.WriteString(r.Kind)
		b.WriteString(")")
	}
	return b.String()
}

// resourcesKey builds a canonical key for a resource list; equal lists yield equal keys.
func resourcesKey(resources []Resource) string {
	var b strings.Builder
	for _, r := range resources {
		// Length-prefixed fields keep the encoding unambiguous
		b.WriteString(r.Type.String())
		b.WriteByte('|')
		writeField(&b, r.Location)
		writeField(&b, r.Kind)
		if r.Optional {
			b.WriteByte('?')
		}
		b.WriteByte(';')
	}
	return b.String()
}

func writeField(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
	b.WriteByte('|')
}
