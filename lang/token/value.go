package token

// Value carries the raw spelling and starting position of a scanned
// token. Numeric, string and character literal decoding is deferred to
// the parser-actions layer (see lang/parseractions), which already knows
// how to turn raw integer/float/string/char text into a value - the
// scanner's job stops at capturing the token's spelling and where it
// started.
type Value struct {
	Raw string
	Pos Pos
}
