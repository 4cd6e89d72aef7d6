// Package model provides an in-memory parameter collection that the pcf
// loader and saver can populate and serialize.
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samcharles93/pcf/pkg/pcf"
)

// Collection is a namespace of parameters. Namespaces nest: a child created
// with Sub shares its entities with every ancestor, so the root enumerates
// the whole tree in creation order.
//
// A Collection is not safe for concurrent mutation.
type Collection struct {
	parent   *Collection
	fullName string
	counters map[string]int
	params   []*Parameter
	lookups  []*LookupParameter
}

var _ pcf.Model = (*Collection)(nil)

// New returns an empty root collection named "/".
func New() *Collection {
	return &Collection{fullName: "/", counters: make(map[string]int)}
}

// FullName returns the namespace path, always ending in '/'.
func (c *Collection) FullName() string { return c.fullName }

// Sub creates a nested namespace "<parent><name>_<n>/".
func (c *Collection) Sub(name string) (*Collection, error) {
	full, err := c.nextName(name)
	if err != nil {
		return nil, err
	}
	return &Collection{parent: c, fullName: full + "/", counters: make(map[string]int)}, nil
}

// NewParameter allocates a zeroed parameter named "<fullname><name>_<n>".
// An empty name yields "<fullname>_<n>".
func (c *Collection) NewParameter(shape pcf.Shape, name string) (*Parameter, error) {
	full, err := c.nextName(name)
	if err != nil {
		return nil, err
	}
	p, err := newParameter(full, shape)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", full, err)
	}
	for n := c; n != nil; n = n.parent {
		n.params = append(n.params, p)
	}
	return p, nil
}

// NewLookupParameter allocates a zeroed table of rows entries of rowShape.
func (c *Collection) NewLookupParameter(rows int, rowShape pcf.Shape, name string) (*LookupParameter, error) {
	full, err := c.nextName(name)
	if err != nil {
		return nil, err
	}
	l, err := newLookupParameter(full, rows, rowShape)
	if err != nil {
		return nil, err
	}
	for n := c; n != nil; n = n.parent {
		n.lookups = append(n.lookups, l)
	}
	return l, nil
}

func (c *Collection) AddParameters(shape pcf.Shape) (pcf.Parameter, error) {
	p, err := c.NewParameter(shape, "")
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Collection) AddLookupParameters(rows int, rowShape pcf.Shape) (pcf.LookupParameter, error) {
	l, err := c.NewLookupParameter(rows, rowShape, "")
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (c *Collection) Parameters() []pcf.Parameter {
	out := make([]pcf.Parameter, len(c.params))
	for i, p := range c.params {
		out[i] = p
	}
	return out
}

func (c *Collection) LookupParameters() []pcf.LookupParameter {
	out := make([]pcf.LookupParameter, len(c.lookups))
	for i, l := range c.lookups {
		out[i] = l
	}
	return out
}

// Parameter returns the i-th dense parameter in creation order.
func (c *Collection) Parameter(i int) *Parameter { return c.params[i] }

// LookupParameter returns the i-th lookup parameter in creation order.
func (c *Collection) LookupParameter(i int) *LookupParameter { return c.lookups[i] }

// Lookup finds an entity by its full name. The result is either a
// *Parameter or a *LookupParameter.
func (c *Collection) Lookup(name string) (pcf.Tensor, bool) {
	for _, p := range c.params {
		if p.Name() == name {
			return p, true
		}
	}
	for _, l := range c.lookups {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

func (c *Collection) nextName(name string) (string, error) {
	if strings.ContainsAny(name, "/ #") {
		return "", fmt.Errorf("%w: name %q must not contain '/', ' ' or '#'", pcf.ErrInvalidArgument, name)
	}
	n := c.counters[name]
	c.counters[name] = n + 1
	return c.fullName + name + "_" + strconv.Itoa(n), nil
}
