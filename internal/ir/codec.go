package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes maps in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.m.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.m.vals[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		b, err := json.Marshal(v.scalar)
		if err != nil {
			return fmt.Errorf("encode scalar %v: %w", v.scalar, err)
		}
		buf.Write(b)
	}
	return nil
}

// UnmarshalJSON keeps object keys in document order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeJSON(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("trailing data after value")
	}
	*v = val
	return nil
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T, want string", kt)
				}
				item, err := decodeJSON(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return MapOf(m), nil
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(items...), nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Scalar(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("number %s: %w", t, err)
		}
		return Scalar(f), nil
	default:
		// string, bool or nil
		return Scalar(t), nil
	}
}

// FromYAML converts a decoded YAML node, keeping mapping order.
func FromYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Scalar(nil), nil
		}
		return FromYAML(n.Content[0])
	case yaml.AliasNode:
		return FromYAML(n.Alias)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			item, err := FromYAML(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			m.Set(n.Content[i].Value, item)
		}
		return MapOf(m), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := FromYAML(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return List(items...), nil
	case yaml.ScalarNode:
		var raw any
		if err := n.Decode(&raw); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if f, ok := raw.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return Scalar(n.Value), nil
		}
		return Scalar(raw), nil
	default:
		return Value{}, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

// MarshalJSON writes entries sorted by id so the output is byte-stable.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[RuleID]Value, s.Len())
	if s != nil {
		for id, v := range s.Entries {
			out[id] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON requires a top-level object.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	// PHP encodes an empty array as [].
	if l, ok := v.AsList(); ok && len(l) == 0 {
		s.Entries = map[RuleID]Value{}
		return nil
	}
	m, ok := v.AsMap()
	if !ok {
		return fmt.Errorf("snapshot must be a JSON object, got %s", v.Kind())
	}
	s.Entries = make(map[RuleID]Value, m.Len())
	for _, k := range m.Keys() {
		s.Entries[RuleID(k)], _ = m.Get(k)
	}
	return nil
}
