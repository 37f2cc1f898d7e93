// Package classify provides a cheap keyword-based intent detector. Its
// output is advisory only: it influences which instruction template is
// selected but never blocks a turn.
package classify

import "strings"

// Result is the classifier's view of one input.
type Result struct {
	IsLearning bool   `json:"is_learning"`
	Category   string `json:"category,omitempty"`
	TopicHint  string `json:"topic_hint,omitempty"`
}

// learningMarkers signal that the user wants to be taught rather than
// just answered.
var learningMarkers = []string{
	"teach me",
	"explain",
	"how do i",
	"how does",
	"help me understand",
	"walk me through",
	"i want to learn",
	"tutorial",
	"step by step",
	"what is the difference",
}

// category holds a topic name and its keyword list. Categories are scanned
// in slice order; the first match wins.
type category struct {
	name     string
	keywords []string
}

var categories = []category{
	{"programming", []string{
		"python", "javascript", "golang", " go ", "java", "rust", "sql",
		"code", "coding", "function", "generator", "algorithm", "api",
		"bug", "compile", "program", "variable", "loop", "recursion",
	}},
	{"math", []string{
		"math", "algebra", "calculus", "geometry", "equation", "derivative",
		"integral", "matrix", "probability", "statistics",
	}},
	{"science", []string{
		"physics", "chemistry", "biology", "atom", "molecule", "evolution",
		"gravity", "quantum", "cell", "energy",
	}},
	{"language", []string{
		"grammar", "vocabulary", "spanish", "french", "german", "japanese",
		"translate", "pronunciation", "sentence",
	}},
	{"history", []string{
		"history", "war", "empire", "revolution", "ancient", "medieval",
		"century", "dynasty",
	}},
}

// Classify inspects the input and reports learning intent and topic
// category. It never fails; anything unrecognized yields the all-negative
// default.
func Classify(text string) Result {
	var res Result
	lower := strings.ToLower(text)

	for _, marker := range learningMarkers {
		if strings.Contains(lower, marker) {
			res.IsLearning = true
			break
		}
	}

	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				res.Category = cat.name
				res.TopicHint = strings.TrimSpace(kw)
				return res
			}
		}
	}

	return res
}
