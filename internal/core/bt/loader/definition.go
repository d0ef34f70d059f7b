package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/behave/internal/core/bt"
)

var (
	ErrInvalidDefinition = errors.New("loader: invalid definition")
	ErrUnknownFormat     = errors.New("loader: unknown definition format")
)

// Definition describes one tree in JSON or YAML. Processes are resolved by
// type name through a bt.Registry.
type Definition struct {
	Name string   `json:"name" yaml:"name"`
	Root *NodeDef `json:"root" yaml:"root"`
}

// NodeDef is one node of a Definition. ID is optional; missing ids are
// assigned depth-first after the largest explicit id.
type NodeDef struct {
	ID       bt.NodeID  `json:"id,omitempty" yaml:"id,omitempty"`
	Type     string     `json:"type" yaml:"type"`
	Params   bt.Params  `json:"params,omitempty" yaml:"params,omitempty"`
	Children []*NodeDef `json:"children,omitempty" yaml:"children,omitempty"`
}

// LoadJSON loads a definition from a JSON reader.
func LoadJSON(r io.Reader) (*Definition, error) {
	var d Definition
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if err := d.Normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadYAML loads a definition from a YAML reader.
func LoadYAML(r io.Reader) (*Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if err := d.Normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Definition, error) {
	var decode func(io.Reader) (*Definition, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = LoadYAML
	case ".json":
		decode = LoadJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// Normalize checks the structure and assigns missing ids. It is idempotent.
func (d *Definition) Normalize() error {
	if d.Root == nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, bt.ErrNoRoot)
	}
	seen := make(map[bt.NodeID]struct{})
	var maxID bt.NodeID
	var check func(n *NodeDef, path string) error
	check = func(n *NodeDef, path string) error {
		if n == nil {
			return fmt.Errorf("%w: %s: empty node", ErrInvalidDefinition, path)
		}
		if n.Type == "" {
			return fmt.Errorf("%w: %s: type is required", ErrInvalidDefinition, path)
		}
		if n.ID < 0 {
			return fmt.Errorf("%w: %s: negative id %d", ErrInvalidDefinition, path, n.ID)
		}
		if n.ID != 0 {
			if _, ok := seen[n.ID]; ok {
				return fmt.Errorf("%w: %s: %w: %d", ErrInvalidDefinition, path, bt.ErrDuplicateID, n.ID)
			}
			seen[n.ID] = struct{}{}
			maxID = max(maxID, n.ID)
		}
		for i, child := range n.Children {
			if err := check(child, fmt.Sprintf("%s/%d", path, i)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(d.Root, d.Root.Type); err != nil {
		return err
	}

	next := maxID
	d.Walk(func(n *NodeDef, _ int) {
		if n.ID == 0 {
			next++
			n.ID = next
		}
	})
	return nil
}

// Walk visits every node depth-first, parents before children.
func (d *Definition) Walk(fn func(n *NodeDef, depth int)) {
	var walk func(n *NodeDef, depth int)
	walk = func(n *NodeDef, depth int) {
		fn(n, depth)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	if d.Root != nil {
		walk(d.Root, 0)
	}
}

// Count is the number of nodes in the definition.
func (d *Definition) Count() int {
	var n int
	d.Walk(func(*NodeDef, int) { n++ })
	return n
}
