// Package catalog holds the recognised filter fields for a search page and the
// worked examples shown next to the query input.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrDuplicateKey is returned when two fields share a key (case-insensitive).
	ErrDuplicateKey = errors.New("duplicate field key")
	// ErrInvalidKey is returned for keys that cannot be typed before an operator.
	ErrInvalidKey = errors.New("invalid field key")
)

var keyPattern = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)

// Field is a recognised filter field. Key is what the user types before the
// operator; Label and Description are for display only.
type Field struct {
	Key         string `yaml:"key" json:"key" toml:"key"`
	Label       string `yaml:"label" json:"label" toml:"label"`
	Description string `yaml:"description" json:"description" toml:"description"`
}

// Example is a complete expression shown verbatim in the help panel.
type Example struct {
	Expression  string `yaml:"expression" json:"expression" toml:"expression"`
	Description string `yaml:"description" json:"description" toml:"description"`
}

// Catalog is an ordered, immutable list of fields plus examples. Order matters:
// completion ties are broken by catalog position.
type Catalog struct {
	name     string
	fields   []Field
	byKey    map[string]int // lower-cased key → position
	examples []Example
}

// New validates fields and returns a catalog. Keys must be word characters and
// unique regardless of case.
func New(name string, fields []Field, examples []Example) (*Catalog, error) {
	c := &Catalog{
		name:     name,
		fields:   make([]Field, 0, len(fields)),
		byKey:    make(map[string]int, len(fields)),
		examples: append([]Example(nil), examples...),
	}
	for _, f := range fields {
		if !keyPattern.MatchString(f.Key) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, f.Key)
		}
		lk := strings.ToLower(f.Key)
		if _, exists := c.byKey[lk]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, f.Key)
		}
		c.byKey[lk] = len(c.fields)
		c.fields = append(c.fields, f)
	}
	return c, nil
}

// MustNew is New for static catalogs; it panics on invalid input.
func MustNew(name string, fields []Field, examples []Example) *Catalog {
	c, err := New(name, fields, examples)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the catalog name (e.g. "assets").
func (c *Catalog) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Fields returns a copy of the fields in catalog order.
func (c *Catalog) Fields() []Field {
	if c == nil {
		return nil
	}
	return append([]Field(nil), c.fields...)
}

// Examples returns a copy of the worked examples.
func (c *Catalog) Examples() []Example {
	if c == nil {
		return nil
	}
	return append([]Example(nil), c.examples...)
}

// Keys returns the field keys in catalog order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.fields))
	for _, f := range c.fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Lookup returns the field for key, ignoring case.
func (c *Catalog) Lookup(key string) (Field, bool) {
	if c == nil {
		return Field{}, false
	}
	idx, ok := c.byKey[strings.ToLower(key)]
	if !ok {
		return Field{}, false
	}
	return c.fields[idx], true
}

// Len returns the number of fields.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fields)
}

// Search returns fields whose key, label or description contains query
// (case-insensitive), in catalog order. An empty query returns every field.
func (c *Catalog) Search(query string) []Field {
	if c == nil {
		return nil
	}
	if query == "" {
		return c.Fields()
	}
	query = strings.ToLower(query)
	var result []Field
	for _, f := range c.fields {
		if strings.Contains(strings.ToLower(f.Key), query) ||
			strings.Contains(strings.ToLower(f.Label), query) ||
			strings.Contains(strings.ToLower(f.Description), query) {
			result = append(result, f)
		}
	}
	return result
}
