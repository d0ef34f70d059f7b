package bt

import (
	"sort"
	"strings"
	"sync"
)

// Vars is the tree-level variable store the host writes inputs into and
// conditions read from. It is safe for concurrent use so that hosts may
// feed it from other goroutines between ticks.
type Vars struct {
	root   *vars
	prefix string
}

type vars struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewVars() *Vars {
	return &Vars{root: &vars{data: make(map[string]any)}}
}

func (v *Vars) fullKey(key string) string {
	if v.prefix == "" {
		return key
	}
	return v.prefix + ":" + key
}

func (v *Vars) Get(key string) (any, bool) {
	full := v.fullKey(key)
	v.root.mu.RLock()
	defer v.root.mu.RUnlock()
	val, ok := v.root.data[full]
	return val, ok
}

func (v *Vars) Set(key string, value any) {
	full := v.fullKey(key)
	v.root.mu.Lock()
	v.root.data[full] = value
	v.root.mu.Unlock()
}

func (v *Vars) Delete(key string) {
	full := v.fullKey(key)
	v.root.mu.Lock()
	delete(v.root.data, full)
	v.root.mu.Unlock()
}

// Namespace returns a view whose keys are stored under "ns:".
func (v *Vars) Namespace(ns string) *Vars {
	ns = strings.ReplaceAll(ns, ":", "_")
	return &Vars{root: v.root, prefix: v.fullKey(ns)}
}

// Keys returns the sorted keys visible from this view.
func (v *Vars) Keys() []string {
	v.root.mu.RLock()
	keys := make([]string, 0, len(v.root.data))
	for k := range v.root.data {
		keys = append(keys, k)
	}
	v.root.mu.RUnlock()
	sort.Strings(keys)
	if v.prefix == "" {
		return keys
	}
	res := make([]string, 0)
	pref := v.prefix + ":"
	for _, k := range keys {
		if strings.HasPrefix(k, pref) {
			res = append(res, strings.TrimPrefix(k, pref))
		}
	}
	return res
}

func (v *Vars) Bool(key string) (bool, bool) {
	val, ok := v.Get(key)
	b, isBool := val.(bool)
	return b, ok && isBool
}

func (v *Vars) String(key string) (string, bool) {
	val, ok := v.Get(key)
	s, isString := val.(string)
	return s, ok && isString
}

func (v *Vars) Float(key string) (float64, bool) {
	val, ok := v.Get(key)
	if !ok {
		return 0, false
	}
	f, err := Params{key: val}.Float(key, 0)
	return f, err == nil
}

func (v *Vars) Int(key string) (int, bool) {
	val, ok := v.Get(key)
	if !ok {
		return 0, false
	}
	i, err := Params{key: val}.Int(key, 0)
	return i, err == nil
}
