package token

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Tokenize scans d into the token stream of the Witness surface
// grammar. The returned PosDoc maps token offsets back to line/column
// pairs for error reporting.
func Tokenize(d []byte) ([]*Token, *PosDoc, error) {
	doc := &PosDoc{d: d}
	var toks []*Token
	i, n := 0, len(d)
	for i < n {
		r, sz := utf8.DecodeRune(d[i:])
		if r == utf8.RuneError && sz == 1 {
			return nil, doc, fmt.Errorf("%w at offset %d", ErrBadUTF8, i)
		}
		switch {
		case r == '\n':
			doc.nl(i)
			i += sz
		case unicode.IsSpace(r):
			i += sz
		case r == '#':
			for i < n && d[i] != '\n' {
				i++
			}
		case r == '"':
			tok, ni, err := lexString(doc, d, i)
			if err != nil {
				return nil, doc, err
			}
			toks = append(toks, tok)
			i = ni
		case isIdentStart(r):
			j := i + sz
			for j < n {
				rr, rsz := utf8.DecodeRune(d[j:])
				if !isIdentMid(rr) {
					break
				}
				j += rsz
			}
			text := string(d[i:j])
			typ := TIdent
			if IsOperator(text) {
				typ = TOp
			}
			toks = append(toks, &Token{Type: typ, Pos: doc.Pos(i), Text: text})
			i = j
		default:
			typ, ok := punct[r]
			if !ok {
				return nil, doc, fmt.Errorf("%w: unexpected character %q %s", ErrLex, r, doc.Pos(i))
			}
			toks = append(toks, &Token{Type: typ, Pos: doc.Pos(i), Text: string(r)})
			i += sz
		}
	}
	toks = append(toks, &Token{Type: TEOF, Pos: doc.Pos(n)})
	return toks, doc, nil
}

var punct = map[rune]Type{
	'=': TAssign,
	';': TSemi,
	',': TComma,
	'(': TLParen,
	')': TRParen,
}

func lexString(doc *PosDoc, d []byte, at int) (*Token, int, error) {
	i, n := at+1, len(d)
	var out []byte
	for i < n {
		c := d[i]
		switch c {
		case '"':
			return &Token{Type: TString, Pos: doc.Pos(at), Text: string(out)}, i + 1, nil
		case '\\':
			if i+1 >= n {
				return nil, i, fmt.Errorf("%w %s", ErrString, doc.Pos(at))
			}
			switch d[i+1] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"', '\\':
				out = append(out, d[i+1])
			default:
				return nil, i, fmt.Errorf("%w: bad escape \\%c %s", ErrLex, d[i+1], doc.Pos(i))
			}
			i += 2
		case '\n':
			return nil, i, fmt.Errorf("%w %s", ErrString, doc.Pos(at))
		default:
			out = append(out, c)
			i++
		}
	}
	return nil, i, fmt.Errorf("%w %s", ErrString, doc.Pos(at))
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentMid(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
