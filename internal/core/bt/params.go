package bt

import (
	"fmt"
	"time"
)

// Params configures a process instance. Values come from tree definitions,
// so numbers may arrive as int, int64 or float64 depending on the decoder.
type Params map[string]any

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Params) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", paramError(key, "string", v)
	}
	return s, nil
}

func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, paramError(key, "number", v)
	}
}

func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, paramError(key, "integer", v)
		}
		return int(n), nil
	default:
		return 0, paramError(key, "integer", v)
	}
}

// Duration accepts Go duration strings ("1.5s") or a number of seconds.
func (p Params) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	if s, ok := v.(string); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
		}
		return d, nil
	}
	secs, err := p.Float(key, 0)
	if err != nil {
		return 0, paramError(key, "duration", v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Vec3 accepts a list of two or three numbers.
func (p Params) Vec3(key string, def Vec3) (Vec3, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	list, ok := v.([]any)
	if !ok || len(list) < 2 || len(list) > 3 {
		return Vec3{}, paramError(key, "[x, y, z]", v)
	}
	var xyz [3]float64
	for i, item := range list {
		n, err := Params{"v": item}.Float("v", 0)
		if err != nil {
			return Vec3{}, paramError(key, "[x, y, z]", v)
		}
		xyz[i] = n
	}
	return Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func paramError(key, want string, got any) error {
	return fmt.Errorf("%w: %s: want %s, got %T", ErrInvalidParam, key, want, got)
}
