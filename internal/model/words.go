package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Words is an ordered prompt -> answer mapping. It serializes as a JSON object
// or YAML mapping and keeps the document order, which decides grouping order.
type Words []RawEntry

// Get returns the answer stored for prompt.
func (w Words) Get(prompt string) (string, bool) {
	for _, e := range w {
		if e.Prompt == prompt {
			return e.Answer, true
		}
	}
	return "", false
}

// Set replaces the answer for an existing prompt or appends a new pair.
func (w *Words) Set(prompt, answer string) {
	for i := range *w {
		if (*w)[i].Prompt == prompt {
			(*w)[i].Answer = answer
			return
		}
	}
	*w = append(*w, RawEntry{Prompt: prompt, Answer: answer})
}

// Merge sets every pair of other on w, in order.
func (w *Words) Merge(other Words) {
	for _, e := range other {
		w.Set(e.Prompt, e.Answer)
	}
}

// MarshalJSON implements json.Marshaler.
func (w Words) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Prompt)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Answer)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. Duplicate keys keep the position
// of their first occurrence and the value of their last, like a JSON object
// decoded into a map would.
func (w *Words) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("words: expected object, got %v", tok)
	}
	out := Words{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("words: expected string key, got %v", tok)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("words: value for %q: %w", key, err)
		}
		out.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*w = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (w Words) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range w {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Prompt},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Answer},
		)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *Words) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("words: line %d: expected mapping", node.Line)
	}
	out := Words{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, val string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("words: line %d: %w", node.Content[i].Line, err)
		}
		if err := node.Content[i+1].Decode(&val); err != nil {
			return fmt.Errorf("words: line %d: %w", node.Content[i+1].Line, err)
		}
		out.Set(key, val)
	}
	*w = out
	return nil
}
