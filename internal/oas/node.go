// Package oas holds the ordered JSON document tree used to read, rewrite and write
// API description documents.
//
// encoding/json maps lose key order and float64 numbers lose their source text, and both
// matter here: the path order chosen by the sorter has to survive serialisation and
// re-running the pipeline must reproduce identical bytes. Node keeps both.
package oas

import (
	"encoding/json"
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is one value in a JSON document.
//
// Only the fields matching Kind are meaningful. Object members are kept in
// insertion order; setting an existing key replaces its value in place.
type Node struct {
	Kind  Kind
	Bool  bool
	Num   json.Number
	Str   string
	Items []*Node

	keys   []string
	fields map[string]*Node
}

// Null returns a JSON null.
func Null() *Node { return &Node{Kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// String returns a JSON string.
func String(s string) *Node { return &Node{Kind: KindString, Str: s} }

// Number returns a JSON number with the given source text.
func Number(n json.Number) *Node { return &Node{Kind: KindNumber, Num: n} }

// Int returns a JSON number for an integer.
func Int(i int) *Node { return Number(json.Number(strconv.Itoa(i))) }

// Array returns a JSON array holding items.
func Array(items ...*Node) *Node {
	if items == nil {
		items = []*Node{}
	}
	return &Node{Kind: KindArray, Items: items}
}

// Object returns an empty JSON object.
func Object() *Node {
	return &Node{Kind: KindObject, fields: map[string]*Node{}}
}

// Strings returns a JSON array of strings.
func Strings(values ...string) *Node {
	items := make([]*Node, 0, len(values))
	for _, v := range values {
		items = append(items, String(v))
	}
	return Array(items...)
}

// IsObject reports whether n is a non-nil object.
func (n *Node) IsObject() bool { return n != nil && n.Kind == KindObject }

// IsArray reports whether n is a non-nil array.
func (n *Node) IsArray() bool { return n != nil && n.Kind == KindArray }

// IsString reports whether n is a non-nil string.
func (n *Node) IsString() bool { return n != nil && n.Kind == KindString }

// Get returns the member named key, or nil when n is not an object or has no such member.
func (n *Node) Get(key string) *Node {
	if !n.IsObject() {
		return nil
	}
	return n.fields[key]
}

// Has reports whether the object has a member named key.
func (n *Node) Has(key string) bool {
	if !n.IsObject() {
		return false
	}
	_, ok := n.fields[key]
	return ok
}

// Set stores v under key. New keys are appended; existing keys keep their position.
// Set is a no-op when n is not an object.
func (n *Node) Set(key string, v *Node) *Node {
	if !n.IsObject() {
		return n
	}
	if n.fields == nil {
		n.fields = map[string]*Node{}
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
	return n
}

// Delete removes key from the object.
func (n *Node) Delete(key string) {
	if !n.IsObject() {
		return
	}
	if _, ok := n.fields[key]; !ok {
		return
	}
	delete(n.fields, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the object's member names in order. The slice must not be modified.
func (n *Node) Keys() []string {
	if !n.IsObject() {
		return nil
	}
	return n.keys
}

// Len returns the number of object members or array items.
func (n *Node) Len() int {
	switch {
	case n.IsObject():
		return len(n.keys)
	case n.IsArray():
		return len(n.Items)
	default:
		return 0
	}
}

// Each calls fn for every object member in order.
func (n *Node) Each(fn func(key string, v *Node)) {
	if !n.IsObject() {
		return
	}
	for _, k := range n.keys {
		fn(k, n.fields[k])
	}
}

// Text returns the string value, or "" for anything that is not a string.
func (n *Node) Text() string {
	if !n.IsString() {
		return ""
	}
	return n.Str
}

// StringAt returns the string member named key, or "".
func (n *Node) StringAt(key string) string {
	return n.Get(key).Text()
}

// Float returns the numeric value and whether n is a parseable number.
func (n *Node) Float() (float64, bool) {
	if n == nil || n.Kind != KindNumber {
		return 0, false
	}
	f, err := n.Num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// StringSlice returns the string items of an array, skipping anything else.
func (n *Node) StringSlice() []string {
	if !n.IsArray() {
		return nil
	}
	out := make([]string, 0, len(n.Items))
	for _, it := range n.Items {
		if it.IsString() {
			out = append(out, it.Str)
		}
	}
	return out
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Bool: n.Bool, Num: n.Num, Str: n.Str}
	switch n.Kind {
	case KindArray:
		c.Items = make([]*Node, len(n.Items))
		for i, it := range n.Items {
			c.Items[i] = it.Clone()
		}
	case KindObject:
		c.keys = append(make([]string, 0, len(n.keys)), n.keys...)
		c.fields = make(map[string]*Node, len(n.fields))
		for k, v := range n.fields {
			c.fields[k] = v.Clone()
		}
	}
	return c
}
