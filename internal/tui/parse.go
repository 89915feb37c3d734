package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
)

var errEmptyAnswer = errors.New("type an answer first")

// ParseAnswer reads what the learner typed for q. Options may be referred to
// by their 1-based number wherever option text is expected.
func ParseAnswer(q models.Question, input string) (models.Answer, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.Answer{}, errEmptyAnswer
	}

	switch q.Type {
	case models.MultipleChoice:
		option, err := resolveOption(q.Options, input)
		if err != nil {
			return models.Answer{}, err
		}
		return models.ScalarAnswer(option), nil
	case models.TrueFalse:
		switch strings.ToLower(input) {
		case "t", "true", "y", "yes":
			return models.ScalarAnswer("true"), nil
		case "f", "false", "n", "no":
			return models.ScalarAnswer("false"), nil
		}
		return models.Answer{}, fmt.Errorf("answer true or false, got %q", input)
	case models.Matching:
		return parseMatching(q.Options, input)
	case models.Ranking:
		return parseRanking(q.Options, input)
	default:
		return models.ParseAnswerText(q.Type, input)
	}
}

func resolveOption(options []string, input string) (string, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("option %d does not exist, choose 1 to %d", n, len(options))
		}
		return options[n-1], nil
	}
	for _, option := range options {
		if strings.EqualFold(option, input) {
			return option, nil
		}
	}
	return "", fmt.Errorf("%q is not one of the options", input)
}

func parseMatching(options []string, input string) (models.Answer, error) {
	answer, err := models.ParseAnswerText(models.Matching, input)
	if err != nil {
		return models.Answer{}, err
	}
	pairs := make(map[string]string, len(answer.Mapping))
	for left, right := range answer.Mapping {
		option, err := resolveOption(options, left)
		if err != nil {
			return models.Answer{}, err
		}
		if _, dup := pairs[option]; dup {
			return models.Answer{}, fmt.Errorf("%q is matched more than once", option)
		}
		pairs[option] = right
	}
	return models.MappingAnswer(pairs), nil
}

func parseRanking(options []string, input string) (models.Answer, error) {
	items := models.SplitList(input)
	if _, err := resolveOption(options, input); len(items) == 1 && err != nil {
		items = strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' })
	}
	order := make([]string, 0, len(items))
	for _, item := range items {
		option, err := resolveOption(options, strings.TrimSpace(item))
		if err != nil {
			return models.Answer{}, err
		}
		if slices.Contains(order, option) {
			return models.Answer{}, fmt.Errorf("%q is ranked more than once", option)
		}
		order = append(order, option)
	}
	return models.SequenceAnswer(order...), nil
}

// matchTargets lists the right-hand values a learner can pick for a matching
// question, in sorted order.
func matchTargets(q models.Question) []string {
	targets := make([]string, 0, len(q.CorrectAnswer.Mapping))
	for _, right := range q.CorrectAnswer.Mapping {
		targets = append(targets, right)
	}
	slices.Sort(targets)
	return slices.Compact(targets)
}

func inputHint(q models.Question) string {
	switch q.Type {
	case models.MultipleChoice:
		return "option number or text"
	case models.TrueFalse:
		return "true or false"
	case models.Matching:
		return "left=right pairs separated by |, e.g. 1=" + firstOr(matchTargets(q), "value")
	case models.Ranking:
		return "option numbers in order, e.g. 2,1,3"
	default:
		return "free text"
	}
}

func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}
