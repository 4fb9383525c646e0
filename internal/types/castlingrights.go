package types

import "strings"

// CastlingRights packs the four castling availability bits.
type CastlingRights uint8

const (
	CastlingNone     CastlingRights = 0
	CastlingWhiteOO  CastlingRights = 1
	CastlingWhiteOOO CastlingRights = CastlingWhiteOO << 1
	CastlingWhite                  = CastlingWhiteOO | CastlingWhiteOOO
	CastlingBlackOO                 = CastlingWhiteOO << 2
	CastlingBlackOOO                = CastlingBlackOO << 1
	CastlingBlack                   = CastlingBlackOO | CastlingBlackOOO
	CastlingAny                     = CastlingWhite | CastlingBlack
)

// Has reports whether any bit set in rhs is also set in cr.
func (cr CastlingRights) Has(rhs CastlingRights) bool {
	return cr&rhs != 0
}

// Remove clears the given rights and returns the new state.
func (cr *CastlingRights) Remove(rhs CastlingRights) CastlingRights {
	*cr &^= rhs
	return *cr
}

// Add sets the given rights and returns the new state.
func (cr *CastlingRights) Add(rhs CastlingRights) CastlingRights {
	*cr |= rhs
	return *cr
}

func (cr CastlingRights) String() string {
	if cr == CastlingNone {
		return "-"
	}
	var b strings.Builder
	if cr.Has(CastlingWhiteOO) {
		b.WriteByte('K')
	}
	if cr.Has(CastlingWhiteOOO) {
		b.WriteByte('Q')
	}
	if cr.Has(CastlingBlackOO) {
		b.WriteByte('k')
	}
	if cr.Has(CastlingBlackOOO) {
		b.WriteByte('q')
	}
	return b.String()
}
