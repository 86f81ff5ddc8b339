package lexer

import "github.com/asyncscript/asyncscript/internal/token"

// TokenStream buffers a Lexer behind a small lookahead window so the
// parser can peek two tokens ahead without re-lexing.
type TokenStream struct {
	lex  *Lexer
	toks []token.Token
	pos  int
}

func NewTokenStream(l *Lexer) *TokenStream {
	return &TokenStream{lex: l}
}

func (s *TokenStream) fill(n int) {
	for len(s.toks) <= n {
		s.toks = append(s.toks, s.lex.NextToken())
	}
}

// Peek returns the token n positions ahead of the stream's current
// position without consuming it. Peek(0) is the next unconsumed token.
func (s *TokenStream) Peek(n int) token.Token {
	s.fill(s.pos + n)
	return s.toks[s.pos+n]
}

// Next consumes and returns the next token.
func (s *TokenStream) Next() token.Token {
	t := s.Peek(0)
	s.pos++
	return t
}
