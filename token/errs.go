package token

import "errors"

var (
	ErrLex     = errors.New("lex error")
	ErrBadUTF8 = errors.New("invalid utf8")
	ErrString  = errors.New("unterminated string")
)
