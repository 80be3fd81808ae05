// Package parser разбирает текст сообщения чата в команду бота.
//
// Разбор не хранит состояния между вызовами и безопасен для
// одновременного использования из разных горутин.
package parser

import (
	"iter"
	"slices"
)

// Tokens возвращает ленивую последовательность токенов сообщения,
// разделенных ASCII-пробелами. Пустые фрагменты пропускаются.
// Каждый новый range начинает разбор заново.
func Tokens(msg string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i := 0; i < len(msg); i++ {
			if isASCIISpace(msg[i]) {
				if start >= 0 {
					if !yield(msg[start:i]) {
						return
					}
					start = -1
				}
				continue
			}
			if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			yield(msg[start:])
		}
	}
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// tokenStream - токены сообщения с просмотром на один вперед
type tokenStream struct {
	tokens []string
	pos    int
}

func newTokenStream(msg string) *tokenStream {
	return &tokenStream{tokens: slices.Collect(Tokens(msg))}
}

// Next забирает следующий токен
func (s *tokenStream) Next() (string, bool) {
	tok, ok := s.Peek()
	if ok {
		s.pos++
	}
	return tok, ok
}

// Peek возвращает следующий токен, не забирая его
func (s *tokenStream) Peek() (string, bool) {
	if s.pos >= len(s.tokens) {
		return "", false
	}
	return s.tokens[s.pos], true
}
