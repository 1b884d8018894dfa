package game

import (
	"fmt"
	"regexp"
	"strings"
)

// Move is a single ply in canonical coordinate notation: source square,
// destination square, and an optional promotion piece, like e2e4 or
// e7e8q. Two Moves are equal iff their encodings are equal.
type Move string

// moveRegex is the exact grammar of a canonical Move. Anything else,
// including uppercase squares or annotated moves like "e2-e4" or
// "Qxh4+", is not a Move.
var moveRegex = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

// ErrNotParsable is returned for provider replies which do not encode a
// Move at all.
var ErrNotParsable = fmt.Errorf("game: reply is not a move")

// ParseMove extracts a Move from a raw provider reply. Only the first
// whitespace-delimited token is considered, so trailing commentary is
// tolerated; nothing else is: the token must match the Move grammar
// exactly, with no case folding or correction of near misses.
func ParseMove(raw string) (Move, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty reply", ErrNotParsable)
	}

	if !moveRegex.MatchString(fields[0]) {
		return "", fmt.Errorf("%w: %q", ErrNotParsable, fields[0])
	}

	return Move(fields[0]), nil
}

func (mov Move) String() string {
	return string(mov)
}
