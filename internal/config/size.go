package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapsim/internal/format"
)

// Size is a byte count that reads from YAML as a plain integer or as a
// string with a K or M suffix ("512K", "1M").
type Size int

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: size must be a scalar", node.Line)
	}
	n, err := format.ParseSize(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	*s = Size(n)
	return nil
}
