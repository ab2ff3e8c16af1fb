package odr2city

import (
	"fmt"
	"sort"
)

// Attributes is the generic attribute bag attached to lanes, roads and road
// objects. Values are stored stringified; the downstream exporter turns them
// into generic city model attributes.
type Attributes map[string]string

// NewAttributes returns an empty attribute bag
func NewAttributes() Attributes {
	return make(Attributes)
}

// AddString stores a non-empty string attribute
func (a Attributes) AddString(name, value string) {
	if value == "" {
		return
	}
	a[name] = value
}

// AddFloat stores a finite float attribute
func (a Attributes) AddFloat(name string, value float64) {
	if !isFinite(value) {
		return
	}
	a[name] = fmt.Sprintf("%g", value)
}

// AddInt stores an integer attribute
func (a Attributes) AddInt(name string, value int) {
	a[name] = fmt.Sprintf("%d", value)
}

// AddBool stores a boolean attribute
func (a Attributes) AddBool(name string, value bool) {
	a[name] = fmt.Sprintf("%t", value)
}

// Names returns all attribute names in sorted order
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
