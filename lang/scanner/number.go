package scanner

import (
	"github.com/fatbrother/toyc-go/lang/token"
)

// number scans a C-style integer or floating-point literal starting at
// the current character (already known to be a digit, or '.' followed
// by a digit). Unlike the teacher's Lua numbers, there is no '0x'/'0o'/
// '0b' radix-prefix ambiguity to resolve against underscores as digit
// separators - ToyC literals are decimal, leading-zero octal, or 0x/0X
// hexadecimal, with C's u/U/l/L integer suffixes and f/F/l/L float
// suffixes. The scanner only needs to recognize the literal's extent and
// classify it as INT or FLOAT; parseractions.Integer/Float do the actual
// value parsing against the raw text it returns here.
func (s *Scanner) number() (tok token.Token, lit string) {
	start := s.off
	tok = token.INT

	isHex := false
	if s.cur == '0' {
		s.advance()
		if s.cur == 'x' || s.cur == 'X' {
			isHex = true
			s.advance()
			s.digits(isHex)
		} else {
			s.digits(false)
		}
	} else {
		s.digits(false)
	}

	if !isHex && s.cur == '.' {
		tok = token.FLOAT
		s.advance()
		s.digits(false)
	}

	if !isHex {
		if e := s.cur; e == 'e' || e == 'E' {
			tok = token.FLOAT
			s.advance()
			if s.cur == '+' || s.cur == '-' {
				s.advance()
			}
			if !isDecimal(s.cur) {
				s.error(s.off, "exponent has no digits")
			}
			s.digits(false)
		}
	}

	if tok == token.INT {
		for s.advanceIf('u', 'U', 'l', 'L') {
		}
	} else {
		s.advanceIf('f', 'F', 'l', 'L')
	}

	return tok, string(s.src[start:s.off])
}

func (s *Scanner) digits(hex bool) {
	if hex {
		for isHexadecimal(s.cur) {
			s.advance()
		}
		return
	}
	for isDecimal(s.cur) {
		s.advance()
	}
}

func isDecimal(rn rune) bool {
	return '0' <= rn && rn <= '9'
}

func isHexadecimal(rn rune) bool {
	return isDecimal(rn) ||
		'a' <= rn && rn <= 'f' ||
		'A' <= rn && rn <= 'F'
}
