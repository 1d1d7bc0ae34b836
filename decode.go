// FILE: lixenwraith/layercfg/decode.go
package layercfg

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DefaultTagName is the struct tag Scan reads field names from.
const DefaultTagName = "toml"

// Scan decodes the section at path into target, which must be a non-nil
// pointer to a struct or map. Field names come from the "toml" struct tag.
// A missing section decodes as an empty one.
func (f Func) Scan(target any, path ...string) error {
	return f.ScanTag(DefaultTagName, target, path...)
}

// ScanTag is Scan with a caller-chosen struct tag ("json", "yaml", ...).
func (f Func) ScanTag(tagName string, target any, path ...string) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	section, err := f(path...)
	if err != nil {
		return err
	}
	return decodeSection(section, tagName, target, strings.Join(path, "."))
}

func decodeSection(section any, tagName string, target any, basePath string) error {
	sectionMap, ok := section.(map[string]any)
	if !ok {
		if section != nil {
			return fmt.Errorf("path %q refers to non-map value (type %T)", basePath, section)
		}
		sectionMap = make(map[string]any) // Empty section
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", basePath, err)
	}
	return nil
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringParseHook(parseIP),
		stringParseHook(parseCIDR),
		stringParseHook(parseURL),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringParseHook converts strings into fields of type T or *T with parse.
// Other source or target types pass through untouched.
func stringParseHook[T any](parse func(string) (*T, error)) mapstructure.DecodeHookFunc {
	want := reflect.TypeOf((*T)(nil)).Elem()

	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		if isPtr {
			t = t.Elem()
		}
		if t != want {
			return data, nil
		}

		v, err := parse(data.(string))
		if err != nil {
			return nil, err
		}
		if isPtr {
			return v, nil
		}
		return *v, nil
	}
}

func parseIP(s string) (*net.IP, error) {
	if len(s) > 45 { // Max IPv6 length
		return nil, fmt.Errorf("invalid IP length: %d", len(s))
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %s", s)
	}
	return &ip, nil
}

func parseCIDR(s string) (*net.IPNet, error) {
	if len(s) > 49 { // Max IPv6 CIDR length
		return nil, fmt.Errorf("invalid CIDR length: %d", len(s))
	}
	_, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR: %w", err)
	}
	return ipnet, nil
}

func parseURL(s string) (*url.URL, error) {
	if len(s) > 2048 {
		return nil, fmt.Errorf("URL too long: %d bytes", len(s))
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	return u, nil
}
