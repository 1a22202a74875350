package msh

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	_ yaml.Marshaler = ModelType(0)
	_ yaml.Marshaler = CollisionShape(0)
	_ yaml.Marshaler = MaterialFlags(0)
	_ yaml.Marshaler = RenderType(0)
)

func (t ModelType) MarshalYAML() (interface{}, error)      { return t.String(), nil }
func (s CollisionShape) MarshalYAML() (interface{}, error) { return s.String(), nil }
func (f MaterialFlags) MarshalYAML() (interface{}, error)  { return f.String(), nil }

// render type codes are not all known, keep raw value visible
func (t RenderType) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:        yaml.ScalarNode,
		Value:       t.String(),
		LineComment: "code " + strconv.Itoa(int(t)),
	}, nil
}

func (t ModelType) MarshalText() ([]byte, error)      { return []byte(t.String()), nil }
func (s CollisionShape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (f MaterialFlags) MarshalText() ([]byte, error)  { return []byte(f.String()), nil }
func (t RenderType) MarshalText() ([]byte, error)     { return []byte(t.String()), nil }
