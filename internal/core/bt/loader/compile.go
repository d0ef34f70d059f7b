package loader

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/behave/internal/core/bt"
)

// Compiled is a validated definition with one configured process per node.
// Processes hold configuration only, so every tree built from a Compiled
// shares them; per-tree state lives in node blackboards.
type Compiled struct {
	name  string
	reg   *bt.Registry
	root  *compiledNode
	count int
	key   uint64

	once sync.Once
}

type compiledNode struct {
	id       bt.NodeID
	typ      string
	proc     bt.Process
	children []*compiledNode
}

// Compile resolves every node type against reg and configures its process.
// Child counts of decorators and leaves are checked against the registered kind. Definitions built in
// code get their missing ids assigned here.
func (d *Definition) Compile(reg *bt.Registry) (*Compiled, error) {
	if err := d.Normalize(); err != nil {
		return nil, err
	}
	c := &Compiled{name: d.Name, reg: reg, key: d.ShapeKey()}

	var compile func(n *NodeDef) (*compiledNode, error)
	compile = func(n *NodeDef) (*compiledNode, error) {
		desc, ok := reg.Lookup(n.Type)
		if !ok {
			return nil, fmt.Errorf("node %d: %w: %s", n.ID, bt.ErrUnknownProcess, n.Type)
		}
		if err := checkArity(desc, len(n.Children)); err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", n.ID, n.Type, err)
		}
		proc, err := reg.Acquire(n.Type, n.Params)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		cn := &compiledNode{id: n.ID, typ: n.Type, proc: proc}
		c.count++
		for _, child := range n.Children {
			ch, err := compile(child)
			if err != nil {
				cn.release(reg)
				return nil, err
			}
			cn.children = append(cn.children, ch)
		}
		return cn, nil
	}

	root, err := compile(d.Root)
	if err != nil {
		return nil, err
	}
	c.root = root
	return c, nil
}

func checkArity(desc bt.Descriptor, children int) error {
	switch desc.Kind {
	case bt.KindDecorator:
		if children != 1 {
			return fmt.Errorf("%w: decorator needs exactly one child, has %d", ErrInvalidDefinition, children)
		}
	case bt.KindCondition, bt.KindAction:
		if children != 0 {
			return fmt.Errorf("%w: %s cannot have children", ErrInvalidDefinition, desc.Kind)
		}
	}
	return nil
}

// Build acquires nodes from alloc and initializes a new tree. The tree must be
// cleared before the Compiled is closed.
func (c *Compiled) Build(alloc *bt.Allocator, opts ...bt.Option) (*bt.Tree, error) {
	if c.root == nil {
		return nil, fmt.Errorf("loader: build %s: compiled definition is closed", c.name)
	}
	var build func(cn *compiledNode) *bt.Node
	build = func(cn *compiledNode) *bt.Node {
		n := alloc.Node(cn.id, cn.proc)
		for _, child := range cn.children {
			n.AddChild(build(child))
		}
		return n
	}
	root := build(c.root)

	tree := &bt.Tree{}
	opts = append([]bt.Option{bt.WithName(c.name)}, opts...)
	if err := tree.Init(alloc, root, opts...); err != nil {
		alloc.ReleaseNode(root)
		return nil, err
	}
	return tree, nil
}

func (c *Compiled) Name() string { return c.name }
func (c *Compiled) Count() int   { return c.count }

// ShapeKey is the ShapeKey of the definition c was compiled from.
func (c *Compiled) ShapeKey() uint64 { return c.key }

// Close returns every process to the registry. It is safe to call twice.
func (c *Compiled) Close() {
	c.once.Do(func() {
		if c.root != nil {
			c.root.release(c.reg)
			c.root = nil
		}
	})
}

func (cn *compiledNode) release(reg *bt.Registry) {
	for _, child := range cn.children {
		child.release(reg)
	}
	reg.Release(cn.typ, cn.proc)
}

// ShapeKey hashes the canonical structure of d: node types, ids, params and
// child order. Definitions with equal keys compile to interchangeable trees.
func (d *Definition) ShapeKey() uint64 {
	h := xxhash.New()
	d.Walk(func(n *NodeDef, depth int) {
		_, _ = h.WriteString(strconv.Itoa(depth))
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(n.Type)
		_, _ = h.WriteString("#")
		_, _ = h.WriteString(strconv.FormatInt(int64(n.ID), 10))
		writeParams(h, n.Params)
		_, _ = h.WriteString(";")
	})
	return h.Sum64()
}

func writeParams(h *xxhash.Digest, params bt.Params) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(h, "{%s=%v}", k, canonical(params[k]))
	}
}

// canonical folds the numeric types decoders produce so that the same value
// hashes the same whether it came from YAML or JSON.
func canonical(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = canonical(item)
		}
		return out
	default:
		return v
	}
}
