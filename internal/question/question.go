package question

import (
	"errors"
	"fmt"
	"regexp"
)

// Type is the kind of question asked.
type Type string

const (
	TypeSubclassOf   Type = "subclass_of"
	TypeInstanceOf   Type = "instance_of"
	TypeHasAttribute Type = "has_attribute"
)

// ErrUnparsable is returned when text matches none of the templates.
var ErrUnparsable = errors.New("unable to parse question")

type template struct {
	typ     Type
	pattern *regexp.Regexp
}

// Templates are tried in this order and the first full match wins, so
// "is X a type of Y?" is never read as an instance question.
var templates = []template{
	{TypeSubclassOf, regexp.MustCompile(`^is (.*) a type of (.*)\?$`)},
	{TypeInstanceOf, regexp.MustCompile(`^is (.*) (?:a|an) (.*)\?$`)},
	{TypeHasAttribute, regexp.MustCompile(`^is (.*) considered to be (.*)\?$`)},
}

// Question is a parsed question: does Head relate to Tail as Type asks?
type Question struct {
	Type Type
	Head string
	Tail string
}

// Parse matches text against the templates.
func Parse(text string) (Question, error) {
	for _, t := range templates {
		m := t.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return Question{Type: t.typ, Head: m[1], Tail: m[2]}, nil
	}
	return Question{}, fmt.Errorf("%w: %q", ErrUnparsable, text)
}

func (q Question) String() string {
	return fmt.Sprintf("%s(%q, %q)", q.Type, q.Head, q.Tail)
}
