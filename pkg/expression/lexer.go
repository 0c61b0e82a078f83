package expression

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

type token struct {
	kind   tokenKind
	pos    int
	text   string
	number float64
}

// Multi-character punctuation, longest first so prefixes never shadow.
var punctuation = []string{"===", "!==", "=>", "==", "!=", ">=", "<=",
	"(", ")", "[", "]", ".", ",", "?", ":", "+", "-", "*", "/", ">", "<", "!"}

func lex(source string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(source) {
		c := source[i]

		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}

		if c == '\'' || c == '"' {
			text, next, err := lexString(source, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, pos: i, text: text})
			i = next
			continue
		}

		if c >= '0' && c <= '9' {
			start := i
			for i < len(source) && (source[i] >= '0' && source[i] <= '9') {
				i++
			}
			if i < len(source) && source[i] == '.' && i+1 < len(source) && source[i+1] >= '0' && source[i+1] <= '9' {
				i++
				for i < len(source) && source[i] >= '0' && source[i] <= '9' {
					i++
				}
			}
			number, err := strconv.ParseFloat(source[start:i], 64)
			if err != nil {
				return nil, errAt(start, "invalid number %q", source[start:i])
			}
			tokens = append(tokens, token{kind: tokNumber, pos: start, text: source[start:i], number: number})
			continue
		}

		if isIdentStart(rune(c)) {
			start := i
			for i < len(source) && isIdentPart(rune(source[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, pos: start, text: source[start:i]})
			continue
		}

		matched := false
		for _, p := range punctuation {
			if strings.HasPrefix(source[i:], p) {
				tokens = append(tokens, token{kind: tokPunct, pos: i, text: p})
				i += len(p)
				matched = true
				break
			}
		}
		if !matched {
			return nil, errAt(i, "unexpected character %q", string(c))
		}
	}

	tokens = append(tokens, token{kind: tokEOF, pos: len(source)})
	return tokens, nil
}

func lexString(source string, start int) (string, int, error) {
	quote := source[start]
	var sb strings.Builder
	i := start + 1
	for i < len(source) {
		c := source[i]
		if c == quote {
			return sb.String(), i + 1, nil
		}
		if c == '\\' {
			if i+1 >= len(source) {
				break
			}
			i++
			switch source[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(source[i])
			default:
				return "", 0, errAt(i, "unsupported escape \\%s", string(source[i]))
			}
			i++
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return "", 0, errAt(start, "unterminated string")
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
