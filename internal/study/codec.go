package study

import (
	"encoding/json"
	"fmt"
)

// The persistence backend stores nested collections as JSON strings.
// These helpers convert in both directions.

func EncodeConcepts(c []Concept) (string, error) {
	return encode("key concepts", c)
}

func DecodeConcepts(s string) ([]Concept, error) {
	var out []Concept
	if err := decode("key concepts", s, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func EncodeQuiz(q []QuizItem) (string, error) {
	return encode("quiz", q)
}

func DecodeQuiz(s string) ([]QuizItem, error) {
	var out []QuizItem
	if err := decode("quiz", s, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func EncodeAnswers(a []Answer) (string, error) {
	return encode("answers", a)
}

func DecodeAnswers(s string) ([]Answer, error) {
	var out []Answer
	if err := decode("answers", s, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encode(what string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", what, err)
	}
	return string(b), nil
}

func decode(what, s string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("decode %s: %w", what, err)
	}
	return nil
}
