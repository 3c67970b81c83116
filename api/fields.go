package api

import (
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// shape is the coarse form of a raw JSON field before it is decoded.
type shape int

const (
	shapeMissing shape = iota
	shapeNull
	shapeEmptyObject
	shapeObject
	shapeOther
)

func shapeOf(raw []byte) shape {
	if len(raw) == 0 {
		return shapeMissing
	}
	r := gjson.ParseBytes(raw)
	switch {
	case r.Type == gjson.Null:
		return shapeNull
	case r.IsObject():
		empty := true
		r.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		if empty {
			return shapeEmptyObject
		}
		return shapeObject
	}
	return shapeOther
}

// coalesce decodes an optional object field. The alternatives are taken in
// order: the sentinel shapes (missing, null, an object with no keys at all)
// collapse to nil, and everything else must decode as a full T. An object whose
// only keys are unknown is not empty and goes through the full decode.
func coalesce[T any](field string, raw []byte) (*T, error) {
	switch shapeOf(raw) {
	case shapeMissing, shapeNull, shapeEmptyObject:
		return nil, nil
	case shapeOther:
		return nil, errors.Errorf("field %q: expected object", field)
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, errors.Wrapf(err, "field %q", field)
	}
	return v, nil
}

// requireFields checks that raw is an object carrying every key with a
// non-null value.
func requireFields(kind string, raw []byte, keys ...string) error {
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		return errors.Errorf("%s: expected object, got %s", kind, r.Type)
	}
	for _, k := range keys {
		v := r.Get(k)
		if !v.Exists() {
			return errors.Errorf("%s: missing field %q", kind, k)
		}
		if v.Type == gjson.Null {
			return errors.Errorf("%s: field %q is null", kind, k)
		}
	}
	return nil
}
