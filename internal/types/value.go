package types

import (
	"strconv"
	"strings"
)

// Value is a centipawn-like evaluation or search score, signed from the
// point of view of whoever currently holds it.
type Value int16

const (
	ValueZero               Value = 0
	ValueDraw               Value = 0
	ValueInf                Value = 15_000
	ValueNA                 Value = -ValueInf - 1
	ValueMax                Value = 10_000
	ValueMin                      = -ValueMax
	ValueCheckMate          Value = ValueMax
	ValueCheckMateThreshold Value = ValueCheckMate - Value(MaxDepth) - 1
)

// IsValid reports whether v lies within the representable search range.
func (v Value) IsValid() bool {
	return v >= ValueMin && v <= ValueMax
}

// IsCheckMateValue reports whether v encodes a forced mate in some number
// of plies rather than a material/positional score.
func (v Value) IsCheckMateValue() bool {
	a := absInt16(v)
	return a > ValueCheckMateThreshold && a <= ValueCheckMate
}

func absInt16(v Value) Value {
	if v < 0 {
		return -v
	}
	return v
}

func (v Value) String() string {
	var b strings.Builder
	switch {
	case v.IsCheckMateValue():
		b.WriteString("mate ")
		if v < ValueZero {
			b.WriteByte('-')
		}
		pliesToMate := int(ValueCheckMate) - int(absInt16(v))
		b.WriteString(strconv.Itoa((pliesToMate + 1) / 2))
	case v == ValueNA:
		b.WriteString("N/A")
	default:
		b.WriteString("cp ")
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}
