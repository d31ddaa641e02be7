// Package config loads typed server configuration from YAML, TOML, or
// Java-properties files, following the multi-format-reader-over-a-flat-map
// shape of go-spring's conf package: one Reader per file extension merging
// into a single map[string]any, then cast-based type coercion at the point
// of use instead of eager struct binding.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magiconair/properties"
	toml "github.com/pelletier/go-toml"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Values holds configuration merged from one or more sources as a flat,
// case-sensitive key space. Later sources (and Overlay calls) win over
// earlier ones for any key they also set.
type Values struct {
	m map[string]any
}

// New creates an empty Values.
func New() *Values {
	return &Values{m: map[string]any{}}
}

// Load reads file and merges its contents into a new Values, selecting the
// reader by file extension (.yaml/.yml, .toml/.tml, .properties).
func Load(file string) (*Values, error) {
	v := New()
	if err := v.LoadFile(file); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadFile merges file's contents into v.
func (v *Values) LoadFile(file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	m, err := decode(b, filepath.Ext(file))
	if err != nil {
		return fmt.Errorf("config: %s: %w", file, err)
	}
	v.merge(m)
	return nil
}

func decode(b []byte, ext string) (map[string]any, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		out := map[string]any{}
		if err := yaml.Unmarshal(b, &out); err != nil {
			return nil, err
		}
		return out, nil
	case ".toml", ".tml":
		out := map[string]any{}
		if err := toml.Unmarshal(b, &out); err != nil {
			return nil, err
		}
		return out, nil
	case ".properties":
		p, err := properties.LoadString(string(b))
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(p.Keys()))
		for _, k := range p.Keys() {
			out[k] = p.GetString(k, "")
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
}

func (v *Values) merge(m map[string]any) {
	flatten("", m, v.m)
}

// flatten turns a nested map (as produced by yaml/toml decoding) into a
// flat, dot-separated key space, the same storage shape go-spring's conf
// package uses internally ("a tree to strictly verify, a flat map to
// store").
func flatten(prefix string, src map[string]any, dst map[string]any) {
	for k, val := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch nested := val.(type) {
		case map[string]any:
			flatten(key, nested, dst)
		case map[any]any:
			converted := make(map[string]any, len(nested))
			for nk, nv := range nested {
				converted[fmt.Sprintf("%v", nk)] = nv
			}
			flatten(key, converted, dst)
		default:
			dst[key] = val
		}
	}
}

// Overlay applies environment-variable overrides: for each key already
// present in v, an environment variable named prefix+strings.ToUpper(key)
// with "." replaced by "_" overrides the file-sourced value if set. This
// mirrors the "environment overlay" pattern common across the pack's
// config-loading code (rivaas-dev-rivaas/config, go-spring's conf).
func (v *Values) Overlay(prefix string) {
	for k := range v.m {
		envKey := prefix + strings.ToUpper(strings.ReplaceAll(k, ".", "_"))
		if val, ok := os.LookupEnv(envKey); ok {
			v.m[k] = val
		}
	}
}

// Has reports whether key is present.
func (v *Values) Has(key string) bool {
	_, ok := v.m[key]
	return ok
}

// String returns key's value cast to string, or def if absent.
func (v *Values) String(key, def string) string {
	if val, ok := v.m[key]; ok {
		if s, err := cast.ToStringE(val); err == nil {
			return s
		}
	}
	return def
}

// Int returns key's value cast to int, or def if absent.
func (v *Values) Int(key string, def int) int {
	if val, ok := v.m[key]; ok {
		if n, err := cast.ToIntE(val); err == nil {
			return n
		}
	}
	return def
}

// Bool returns key's value cast to bool, or def if absent.
func (v *Values) Bool(key string, def bool) bool {
	if val, ok := v.m[key]; ok {
		if b, err := cast.ToBoolE(val); err == nil {
			return b
		}
	}
	return def
}

// Duration returns key's value cast to time.Duration, or def if absent.
func (v *Values) Duration(key string, def time.Duration) time.Duration {
	if val, ok := v.m[key]; ok {
		if d, err := cast.ToDurationE(val); err == nil {
			return d
		}
	}
	return def
}

// StringSlice returns key's value cast to []string, or def if absent.
func (v *Values) StringSlice(key string, def []string) []string {
	if val, ok := v.m[key]; ok {
		if s, err := cast.ToStringSliceE(val); err == nil {
			return s
		}
	}
	return def
}

// Server is the typed configuration an egret.Engine can be built from via
// egret.WithServerConfig, covering the ambient "address, timeouts, trusted
// proxies" concerns spec.md doesn't model but any deployed Go HTTP service
// carries.
type Server struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	Scheme         string
	TrustedProxies []string
}

// ServerFromValues builds a Server from v, applying the given defaults for
// any key not present.
func ServerFromValues(v *Values, defaults Server) Server {
	return Server{
		Address:        v.String("server.address", defaults.Address),
		ReadTimeout:    v.Duration("server.read_timeout", defaults.ReadTimeout),
		WriteTimeout:   v.Duration("server.write_timeout", defaults.WriteTimeout),
		IdleTimeout:    v.Duration("server.idle_timeout", defaults.IdleTimeout),
		Scheme:         v.String("server.scheme", defaults.Scheme),
		TrustedProxies: v.StringSlice("server.trusted_proxies", defaults.TrustedProxies),
	}
}
