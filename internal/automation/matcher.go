package automation

import (
	"strings"
	"unicode"

	"whatsapp-autoreply/pkg/models"
)

// Evaluate returns the first active rule, in declared order, whose pattern
// matches text. It reports false when no rule matches.
func Evaluate(rules []models.AutomationRule, text string) (models.AutomationRule, bool) {
	var tokens []string // tokenized lazily, at most once
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		switch rule.MatchType {
		case models.MatchAlways:
			return rule, true
		case models.MatchContains:
			if matchContains(text, rule.Pattern) {
				return rule, true
			}
		case models.MatchKeyword:
			if tokens == nil {
				tokens = tokenize(text)
			}
			if matchKeyword(tokens, rule.Pattern) {
				return rule, true
			}
		}
	}
	return models.AutomationRule{}, false
}

func matchContains(text, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
}

// matchKeyword treats the whole pattern as a single token, so a pattern
// with spaces never equals any token.
func matchKeyword(tokens []string, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	for _, tok := range tokens {
		if strings.EqualFold(tok, pattern) {
			return true
		}
	}
	return false
}

// tokenize splits on every rune that is neither a letter nor a digit
func tokenize(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if tokens == nil {
		tokens = []string{}
	}
	return tokens
}
