// Package serp finds brand mentions in a SERP payload and attributes each one to a feature.
package serp

import (
	"errors"
	"strings"
)

var (
	ErrEmptyBrand = errors.New("brand must not be empty")
	ErrNotTree    = errors.New("payload root must be a mapping or a sequence")
)

// Brand is a case-insensitive substring matcher.
type Brand struct {
	name   string
	folded string
}

func NewBrand(name string) (Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Brand{}, ErrEmptyBrand
	}
	return Brand{name: name, folded: strings.ToLower(name)}, nil
}

func (b Brand) Name() string { return b.name }

// In reports whether s mentions the brand.
func (b Brand) In(s string) bool {
	return b.folded != "" && strings.Contains(strings.ToLower(s), b.folded)
}

// Is reports whether s is the brand name itself.
func (b Brand) Is(s string) bool {
	return strings.ToLower(strings.TrimSpace(s)) == b.folded
}
