package models

import (
	"fmt"
	"slices"
	"strings"
)

// Text form of answers used by spreadsheets and the terminal runner: list
// items are separated by "|" and matching pairs are written "left=right".
const (
	ListSeparator = "|"
	PairSeparator = "="
)

// SplitList splits a "|" separated cell, dropping blank items.
func SplitList(text string) []string {
	var items []string
	for _, item := range strings.Split(text, ListSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ParseAnswerText reads the text form of an answer in the shape the question
// type expects. Blank text is the zero Answer.
func ParseAnswerText(t QuestionType, text string) (Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Answer{}, nil
	}

	switch ExpectedAnswerKind(t) {
	case AnswerMapping:
		pairs := make(map[string]string)
		for _, item := range SplitList(text) {
			left, right, ok := strings.Cut(item, PairSeparator)
			left, right = strings.TrimSpace(left), strings.TrimSpace(right)
			if !ok || left == "" || right == "" {
				return Answer{}, fmt.Errorf("pair %q must be written as left=right", item)
			}
			if _, dup := pairs[left]; dup {
				return Answer{}, fmt.Errorf("%q is matched more than once", left)
			}
			pairs[left] = right
		}
		return MappingAnswer(pairs), nil
	case AnswerSequence:
		return SequenceAnswer(SplitList(text)...), nil
	default:
		return ScalarAnswer(text), nil
	}
}

// FormatAnswerText is the inverse of ParseAnswerText. Mapping pairs are
// written in key order.
func FormatAnswerText(a Answer) string {
	switch a.Kind {
	case AnswerScalar:
		return a.Scalar
	case AnswerMapping:
		keys := make([]string, 0, len(a.Mapping))
		for k := range a.Mapping {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + PairSeparator + a.Mapping[k]
		}
		return strings.Join(pairs, ListSeparator)
	case AnswerSequence:
		return strings.Join(a.Sequence, ListSeparator)
	default:
		return ""
	}
}
