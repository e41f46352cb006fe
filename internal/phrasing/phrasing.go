// Package phrasing turns fact statements into yes/no questions.
//
// Facts are written as predicates about an unnamed subject: "is
// yellow", "has holes", "doesn't fly", "swims fast". Question
// rewrites the statement into the matching question form; statements
// it does not recognize come back unchanged.
package phrasing

import (
	"fmt"
	"strings"
)

// Question converts a fact statement into a question about "it".
func Question(fact string) string {
	return QuestionAbout("", fact)
}

// QuestionAbout is Question with an explicit subject ("the animal",
// "the character"). An empty subject defaults to "it".
func QuestionAbout(subject, fact string) string {
	words := strings.Fields(fact)
	if len(words) < 2 {
		return fact
	}

	if subject == "" {
		subject = "it"
	}
	verb := words[0]
	rest := strings.Join(words[1:], " ")

	switch {
	case verb == "is":
		return fmt.Sprintf("Is %s %s?", subject, rest)
	case verb == "has":
		return fmt.Sprintf("Does %s have %s?", subject, rest)
	case verb == "doesn't":
		return fmt.Sprintf("Does %s not %s?", subject, rest)
	case strings.HasSuffix(verb, "s"):
		return fmt.Sprintf("Does %s %s %s?", subject, verb[:len(verb)-1], rest)
	}
	return fact
}
