package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnswerKind identifies which payload of an Answer is populated.
type AnswerKind string

const (
	AnswerScalar   AnswerKind = "scalar"
	AnswerMapping  AnswerKind = "mapping"
	AnswerSequence AnswerKind = "sequence"
)

// Answer is the tagged union used for both submitted answers and answer keys.
// Exactly one payload matches Kind; the zero value means "no answer".
type Answer struct {
	Kind     AnswerKind
	Scalar   string
	Mapping  map[string]string
	Sequence []string
}

func ScalarAnswer(value string) Answer {
	return Answer{Kind: AnswerScalar, Scalar: value}
}

func MappingAnswer(pairs map[string]string) Answer {
	m := make(map[string]string, len(pairs))
	for k, v := range pairs {
		m[k] = v
	}
	return Answer{Kind: AnswerMapping, Mapping: m}
}

func SequenceAnswer(items ...string) Answer {
	return Answer{Kind: AnswerSequence, Sequence: append([]string{}, items...)}
}

// ExpectedAnswerKind returns the answer shape a question type accepts.
func ExpectedAnswerKind(t QuestionType) AnswerKind {
	switch t {
	case Matching:
		return AnswerMapping
	case Ranking:
		return AnswerSequence
	default:
		return AnswerScalar
	}
}

func (a Answer) IsZero() bool {
	return a.Kind == ""
}

// Equal compares two answers structurally: same kind, same scalar, same
// key/value pairs, or same sequence order. Two zero answers are equal; answers
// of an unknown kind never are.
func (a Answer) Equal(other Answer) bool {
	if a.Kind != other.Kind {
		return false
	}
	switch a.Kind {
	case AnswerScalar:
		return a.Scalar == other.Scalar
	case AnswerMapping:
		if len(a.Mapping) != len(other.Mapping) {
			return false
		}
		for k, v := range a.Mapping {
			ov, ok := other.Mapping[k]
			if !ok || ov != v {
				return false
			}
		}
		return true
	case AnswerSequence:
		if len(a.Sequence) != len(other.Sequence) {
			return false
		}
		for i := range a.Sequence {
			if a.Sequence[i] != other.Sequence[i] {
				return false
			}
		}
		return true
	case "":
		return true
	default:
		return false
	}
}

func (a Answer) Clone() Answer {
	out := Answer{Kind: a.Kind, Scalar: a.Scalar}
	if a.Mapping != nil {
		out.Mapping = make(map[string]string, len(a.Mapping))
		for k, v := range a.Mapping {
			out.Mapping[k] = v
		}
	}
	if a.Sequence != nil {
		out.Sequence = append([]string{}, a.Sequence...)
	}
	return out
}

func (a Answer) String() string {
	switch a.Kind {
	case AnswerScalar:
		return a.Scalar
	case AnswerMapping:
		return fmt.Sprintf("%v", a.Mapping)
	case AnswerSequence:
		return fmt.Sprintf("%v", a.Sequence)
	default:
		return ""
	}
}

// MarshalJSON encodes the answer in its natural shape: string, object or array.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerScalar:
		return json.Marshal(a.Scalar)
	case AnswerMapping:
		return json.Marshal(a.Mapping)
	case AnswerSequence:
		return json.Marshal(a.Sequence)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("invalid mapping answer: %w", err)
		}
		pairs := make(map[string]string, len(raw))
		for k, v := range raw {
			s, err := scalarFromJSON(v)
			if err != nil {
				return fmt.Errorf("invalid mapping answer value for %q: %w", k, err)
			}
			pairs[k] = s
		}
		*a = Answer{Kind: AnswerMapping, Mapping: pairs}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("invalid sequence answer: %w", err)
		}
		items := make([]string, len(raw))
		for i, v := range raw {
			s, err := scalarFromJSON(v)
			if err != nil {
				return fmt.Errorf("invalid sequence answer item %d: %w", i, err)
			}
			items[i] = s
		}
		*a = Answer{Kind: AnswerSequence, Sequence: items}
	default:
		s, err := scalarFromJSON(trimmed)
		if err != nil {
			return err
		}
		*a = ScalarAnswer(s)
	}
	return nil
}

func scalarFromJSON(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("nested values are not supported")
	default:
		// true, false, numbers
		return string(trimmed), nil
	}
}

// MarshalYAML mirrors MarshalJSON so bank files round-trip.
func (a Answer) MarshalYAML() (interface{}, error) {
	switch a.Kind {
	case AnswerScalar:
		return a.Scalar, nil
	case AnswerMapping:
		return a.Mapping, nil
	case AnswerSequence:
		return a.Sequence, nil
	default:
		return nil, nil
	}
}

func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*a = Answer{}
			return nil
		}
		*a = ScalarAnswer(node.Value)
	case yaml.MappingNode:
		var pairs map[string]string
		if err := node.Decode(&pairs); err != nil {
			return fmt.Errorf("invalid mapping answer at line %d: %w", node.Line, err)
		}
		*a = Answer{Kind: AnswerMapping, Mapping: pairs}
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return fmt.Errorf("invalid sequence answer at line %d: %w", node.Line, err)
		}
		*a = Answer{Kind: AnswerSequence, Sequence: items}
	default:
		return fmt.Errorf("unsupported answer shape at line %d", node.Line)
	}
	return nil
}
