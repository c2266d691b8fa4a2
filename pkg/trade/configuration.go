package trade

import (
	"fmt"
	"strconv"
	"strings"
)

// Configurable is implemented by plugins that accept string options.
type Configurable interface {
	Name() string
	Configuration() *Configuration
}

// Configuration is an ordered set of string options with defaults.
type Configuration struct {
	keys   []string
	values map[string]string
	known  map[string]bool

	// Passthrough marks proxy plugins that hand options to the plugin they
	// delegate to. Unknown keys are not reported for them.
	Passthrough bool
}

// NewConfiguration creates a configuration with the given key/default
// pairs.
func NewConfiguration(pairs ...string) *Configuration {
	c := &Configuration{values: make(map[string]string), known: make(map[string]bool)}
	for i := 0; i+1 < len(pairs); i += 2 {
		c.Define(pairs[i], pairs[i+1])
	}
	return c
}

// Define declares a known key with its default value.
func (c *Configuration) Define(key, value string) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
	c.known[key] = true
}

// Set stores a value and reports whether the key was declared.
func (c *Configuration) Set(key, value string) bool {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
	return c.known[key]
}

// Keys returns all keys in declaration order.
func (c *Configuration) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Value returns the value of key, or "" when it is not set.
func (c *Configuration) Value(key string) string {
	return c.values[key]
}

// Bool parses key as a boolean. Empty or malformed values are false.
func (c *Configuration) Bool(key string) bool {
	b, _ := strconv.ParseBool(c.values[key])
	return b
}

// Float parses key as a float64.
func (c *Configuration) Float(key string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.values[key]), 64)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return v, nil
}

// Int parses key as an int.
func (c *Configuration) Int(key string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(c.values[key]))
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return v, nil
}

// CopyTo sets every value of c on dst. It returns the keys dst does not
// declare.
func (c *Configuration) CopyTo(dst *Configuration) []string {
	var unknown []string
	for _, k := range c.keys {
		if !dst.Set(k, c.values[k]) {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// SetOptions applies a "key=value,key2=value2" string to a plugin. A key
// without "=" is set to "true". Unknown keys are still stored; a warning is
// returned for each of them unless the plugin is a passthrough proxy.
func SetOptions(p Configurable, options string) []string {
	if options == "" {
		return nil
	}
	c := p.Configuration()
	var warnings []string
	for _, opt := range strings.Split(options, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			value = "true"
		}
		key = strings.TrimSpace(key)
		if !c.Set(key, strings.TrimSpace(value)) && !c.Passthrough {
			warnings = append(warnings, fmt.Sprintf("option %s not recognized by %s", key, p.Name()))
		}
	}
	return warnings
}
