// Package shape holds plain geometric values and helpers to move them to and
// from text. Decoding into a named shape replaces attaching behavior to an
// untyped decoded object: the name selects a Go type and the decoded fields
// are stored into it.
package shape

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Shape is a value with an area.
type Shape interface {
	Area() float64
}

type Rectangle struct {
	Width  float64 `json:"width" ion:"width" yaml:"width"`
	Height float64 `json:"height" ion:"height" yaml:"height"`
}

// NewRectangle returns rectangle with given dimensions.
func NewRectangle(width, height float64) *Rectangle {
	return &Rectangle{Width: width, Height: height}
}

func (r *Rectangle) Area() float64 {
	return r.Width * r.Height
}

type Circle struct {
	Radius float64 `json:"radius" ion:"radius" yaml:"radius"`
}

func (c *Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

var ErrUnknownShape = errors.New("unknown shape")

// registry maps shape name to constructor of empty value to decode into.
var registry = map[string]func() Shape{
	"rectangle": func() Shape { return &Rectangle{} },
	"circle":    func() Shape { return &Circle{} },
}

// Names returns known shape names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newShape(name string) (Shape, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q is %w", name, ErrUnknownShape)
	}
	return ctor(), nil
}
