// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// JSONKind is the kind of a JSON value as determined by its first token.
type JSONKind uint8

// These constants define the JSON kinds a Shape can require.
const (
	KindInvalid JSONKind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Map of JSONKind values back to their names for pretty printing.
var jsonKindStrings = map[JSONKind]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "bool",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

// String returns the JSONKind as a human-readable name.
func (k JSONKind) String() string {
	if s, ok := jsonKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("Unknown JSONKind (%d)", uint8(k))
}

// kindOf returns the kind of the passed raw JSON value.  It only inspects the
// first token, so a malformed value can still report a kind and will then
// fail when it is decoded.
func kindOf(raw []byte) JSONKind {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return KindInvalid
	}

	switch c := raw[0]; {
	case c == 'n':
		return KindNull
	case c == 't' || c == 'f':
		return KindBool
	case c == '"':
		return KindString
	case c == '[':
		return KindArray
	case c == '{':
		return KindObject
	case c == '-' || (c >= '0' && c <= '9'):
		return KindNumber
	}
	return KindInvalid
}

// Shape is the structural description of one variant of a result.  A payload
// matches a shape when it has the shape's kind and, for objects, when:
//
//   - every Required key is present
//   - no Forbidden key is present
//   - at least one Incomplete key is absent
//   - every present key listed in KeyKinds has that kind
//   - every member value matches Members, when Members is set
//
// Shapes that share a result are built to be pairwise disjoint so the first
// match is the only possible one.
type Shape struct {
	Name       string
	Kind       JSONKind
	Required   []string
	Forbidden  []string
	Incomplete []string
	KeyKinds   map[string]JSONKind
	Members    *Shape
}

// Match reports whether the passed payload structurally satisfies the shape.
func (s *Shape) Match(raw json.RawMessage) bool {
	if kindOf(raw) != s.Kind {
		return false
	}
	if s.Kind != KindObject {
		return true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	return s.matchObject(obj)
}

func (s *Shape) matchObject(obj map[string]json.RawMessage) bool {
	for _, key := range s.Required {
		if _, ok := obj[key]; !ok {
			return false
		}
	}
	for _, key := range s.Forbidden {
		if _, ok := obj[key]; ok {
			return false
		}
	}
	if len(s.Incomplete) > 0 {
		missing := false
		for _, key := range s.Incomplete {
			if _, ok := obj[key]; !ok {
				missing = true
				break
			}
		}
		if !missing {
			return false
		}
	}
	for key, kind := range s.KeyKinds {
		if v, ok := obj[key]; ok && kindOf(v) != kind {
			return false
		}
	}
	if s.Members != nil {
		for _, v := range obj {
			if !s.Members.Match(v) {
				return false
			}
		}
	}
	return true
}

// DisjointFrom reports whether no payload can match both s and other.  The
// check is conservative: false means an overlap could not be ruled out from
// the shape descriptions alone.
func (s *Shape) DisjointFrom(other *Shape) bool {
	if s.Kind != other.Kind {
		return true
	}
	if s.Kind != KindObject {
		return false
	}

	if intersects(s.Required, other.Forbidden) ||
		intersects(other.Required, s.Forbidden) {

		return true
	}
	if len(s.Incomplete) > 0 && subset(s.Incomplete, other.Required) {
		return true
	}
	if len(other.Incomplete) > 0 && subset(other.Incomplete, s.Required) {
		return true
	}
	return keyKindConflict(s, other) || keyKindConflict(other, s)
}

// keyKindConflict reports whether a key that b always carries is constrained
// by a to a kind b never gives it.
func keyKindConflict(a, b *Shape) bool {
	for _, key := range b.Required {
		bKind, ok := b.KeyKinds[key]
		if !ok {
			continue
		}
		if aKind, ok := a.KeyKinds[key]; ok && aKind != bKind {
			return true
		}
		if a.Members != nil && a.Members.Kind != bKind {
			return true
		}
	}
	return false
}

// CheckDisjoint returns an error naming the first pair of shapes that are
// not provably disjoint.
func CheckDisjoint(shapes ...*Shape) error {
	for i := 0; i < len(shapes); i++ {
		for j := i + 1; j < len(shapes); j++ {
			if !shapes[i].DisjointFrom(shapes[j]) {
				return fmt.Errorf("shapes %q and %q overlap",
					shapes[i].Name, shapes[j].Name)
			}
		}
	}
	return nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func subset(a, b []string) bool {
	for _, x := range a {
		if !intersects([]string{x}, b) {
			return false
		}
	}
	return true
}

// schemaReflector derives the keys of result structs from their json tags.
// A field without omitempty is required.
var schemaReflector = &jsonschema.Reflector{
	Anonymous:                 true,
	DoNotReference:            true,
	AllowAdditionalProperties: true,
}

// requiredKeys returns the sorted keys a result struct always carries.
func requiredKeys(v interface{}) []string {
	schema := schemaReflector.Reflect(v)
	keys := append([]string(nil), schema.Required...)
	sort.Strings(keys)
	return keys
}

// objectShape returns the shape of the JSON object encoding v.
func objectShape(name string, v interface{}) *Shape {
	return &Shape{
		Name:     name,
		Kind:     KindObject,
		Required: requiredKeys(v),
	}
}

// Shapes of scalar and opaque results.
var (
	stringShape = &Shape{Name: "string", Kind: KindString}
	numberShape = &Shape{Name: "number", Kind: KindNumber}
	arrayShape  = &Shape{Name: "array", Kind: KindArray}
	nullShape   = &Shape{Name: "null", Kind: KindNull}
)

// candidate pairs a shape with the decoder producing its variant.
type candidate[R any] struct {
	shape  *Shape
	decode func(json.RawMessage) (R, error)
}

// variant returns a candidate decoding into T and converting it to R.
func variant[R, T any](shape *Shape, conv func(T) R) candidate[R] {
	return candidate[R]{
		shape: shape,
		decode: func(raw json.RawMessage) (R, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				var zero R
				return zero, err
			}
			return conv(v), nil
		},
	}
}

// decodeUnion tries the candidates in order and returns the first one whose
// shape matches the payload and which decodes without error.
func decodeUnion[R any](method Method, raw json.RawMessage,
	cands ...candidate[R]) (R, error) {

	v, err := resolveUnion(raw, cands...)
	if err != nil {
		err.Method = method
		return v, err
	}
	return v, nil
}

// decodeField resolves a union nested inside a result.  The error names the
// field rather than a method, since the same field appears in the results of
// several commands and the enclosing decode reports which one.
func decodeField[R any](field string, raw json.RawMessage,
	cands ...candidate[R]) (R, error) {

	v, err := resolveUnion(raw, cands...)
	if err != nil {
		err.Field = field
		return v, err
	}
	return v, nil
}

func resolveUnion[R any](raw json.RawMessage,
	cands ...candidate[R]) (R, *SchemaError) {

	var (
		zero    R
		names   = make([]string, 0, len(cands))
		lastErr error
	)
	for _, c := range cands {
		names = append(names, c.shape.Name)
		if !c.shape.Match(raw) {
			continue
		}

		v, err := c.decode(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return v, nil
	}

	return zero, &SchemaError{Candidates: names, Err: lastErr}
}

// decodeAs decodes a payload that has a single possible shape.
func decodeAs[T any](method Method, shape *Shape, raw json.RawMessage) (T, error) {
	return decodeUnion(method, raw, variant(shape, func(v T) T { return v }))
}
