package sqlvalue

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindReal
	KindText
	KindBool
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInt:
		return "INTEGER"
	case KindReal:
		return "REAL"
	case KindText:
		return "TEXT"
	case KindBool:
		return "BOOLEAN"
	case KindDate:
		return "DATE"
	default:
		return "UNKNOWN"
	}
}

// Value is the tagged scalar domain: integer, real, text, boolean, date,
// or null. It holds only comparable fields, so two Values can be compared
// with ==. Index keys are not native Values but their String() form; see
// internal/engine's Index.
type Value struct {
	Kind Kind
	I    int64
	R    float64
	S    string // holds Text and Date payloads
	B    bool
}

// Null is the canonical null value.
var Null = Value{Kind: KindNull}

// IsNull reports whether v holds the null variant.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// IsNumeric reports whether v holds an Int or Real.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindReal
}

// Float64 returns v's numeric value and true if v is Int or Real.
func (v Value) Float64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindReal:
		return v.R, true
	default:
		return 0, false
	}
}

// Int returns an Int value.
func Int(i int64) Value { return Value{Kind: KindInt, I: i} }

// Real returns a Real value.
func Real(r float64) Value { return Value{Kind: KindReal, R: r} }

// Text returns a Text value.
func Text(s string) Value { return Value{Kind: KindText, S: s} }

// Bool returns a Boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

// Date returns a Date value (ISO-8601 text form, stored verbatim).
func Date(s string) Value { return Value{Kind: KindDate, S: s} }

// String renders v in the textual form used for `=`, LIKE, and
// audit/log display. Two Values that should be considered "the same cell"
// for equality purposes always render identically here.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.I, 10)
	case KindReal:
		return strconv.FormatFloat(v.R, 'g', -1, 64)
	case KindText, KindDate:
		return v.S
	case KindBool:
		if v.B {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// ParseLiteral converts one already-split grammar token into a Value,
// following spec.md's literal rules: all-digits (optionally signed) is an
// Int, a token containing '.' is a Real, a single- or double-quoted token
// is Text with the quotes stripped, the bare keyword NULL is Null, the bare
// keywords TRUE and FALSE (any case) are Bool, and anything else not
// requiring quotes (e.g. a bare identifier on the right of SET) is treated
// as Text.
func ParseLiteral(tok string) Value {
	tok = strings.TrimSpace(tok)
	if strings.EqualFold(tok, "NULL") {
		return Null
	}
	if len(tok) >= 2 {
		first := tok[0]
		last := tok[len(tok)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return Text(tok[1 : len(tok)-1])
		}
	}
	if isIntLiteral(tok) {
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return Int(n)
		}
	}
	if strings.Contains(tok, ".") {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return Real(f)
		}
	}
	if strings.EqualFold(tok, "TRUE") {
		return Bool(true)
	}
	if strings.EqualFold(tok, "FALSE") {
		return Bool(false)
	}
	return Text(tok)
}

func isIntLiteral(tok string) bool {
	if tok == "" {
		return false
	}
	start := 0
	if tok[0] == '+' || tok[0] == '-' {
		start = 1
	}
	if start == len(tok) {
		return false
	}
	for _, r := range tok[start:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ColumnType is a declared column type.
type ColumnType uint8

const (
	TypeInteger ColumnType = iota
	TypeText
	TypeReal
	TypeBoolean
	TypeDate
)

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeText:
		return "TEXT"
	case TypeReal:
		return "REAL"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeDate:
		return "DATE"
	default:
		return "UNKNOWN"
	}
}

// ParseColumnType resolves a grammar type keyword to a ColumnType.
func ParseColumnType(s string) (ColumnType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INTEGER", "INT":
		return TypeInteger, true
	case "TEXT", "STRING":
		return TypeText, true
	case "REAL", "FLOAT", "DOUBLE":
		return TypeReal, true
	case "BOOLEAN", "BOOL":
		return TypeBoolean, true
	case "DATE":
		return TypeDate, true
	default:
		return 0, false
	}
}

// CoerceTo converts v into the representation appropriate for a column
// declared as t, rejecting values that can't be meaningfully converted.
// Null always passes through unchanged; callers enforce NOT NULL/PRIMARY
// KEY separately (spec.md §4.1 step 2).
func (v Value) CoerceTo(t ColumnType) (Value, error) {
	if v.IsNull() {
		return v, nil
	}
	switch t {
	case TypeInteger:
		switch v.Kind {
		case KindInt:
			return v, nil
		case KindBool:
			if v.B {
				return Int(1), nil
			}
			return Int(0), nil
		case KindText, KindDate:
			if n, err := strconv.ParseInt(strings.TrimSpace(v.S), 10, 64); err == nil {
				return Int(n), nil
			}
		}
		return Value{}, fmt.Errorf("type mismatch: %q is not INTEGER", v.String())
	case TypeReal:
		switch v.Kind {
		case KindReal:
			return v, nil
		case KindInt:
			return Real(float64(v.I)), nil
		case KindText, KindDate:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.S), 64); err == nil {
				return Real(f), nil
			}
		}
		return Value{}, fmt.Errorf("type mismatch: %q is not REAL", v.String())
	case TypeText:
		return Text(v.String()), nil
	case TypeBoolean:
		switch v.Kind {
		case KindBool:
			return v, nil
		case KindText:
			switch strings.ToUpper(strings.TrimSpace(v.S)) {
			case "TRUE":
				return Bool(true), nil
			case "FALSE":
				return Bool(false), nil
			}
			return Value{}, fmt.Errorf("type mismatch: %q is not BOOLEAN", v.String())
		case KindInt:
			return Bool(v.I != 0), nil
		}
		return Value{}, fmt.Errorf("type mismatch: %q is not BOOLEAN", v.String())
	case TypeDate:
		switch v.Kind {
		case KindDate:
			return v, nil
		case KindText:
			return Date(v.S), nil
		}
		return Value{}, fmt.Errorf("type mismatch: %q is not DATE", v.String())
	default:
		return Value{}, fmt.Errorf("unknown column type %v", t)
	}
}

// Equal compares by textual equality of both sides, per spec.md §4.1's
// `=` operator semantics and §4.3's FK-cell comparison rule.
func (v Value) Equal(other Value) bool {
	return v.String() == other.String()
}

// Compare provides native ordering for `>`, `<`, `>=`, `<=`. ok is false
// when the two values can't be meaningfully ordered against each other
// (spec.md: "mixed types fall back to false").
func (v Value) Compare(other Value) (cmp int, ok bool) {
	if v.IsNumeric() && other.IsNumeric() {
		a, _ := v.Float64()
		b, _ := other.Float64()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	if (v.Kind == KindText || v.Kind == KindDate) && (other.Kind == KindText || other.Kind == KindDate) {
		return strings.Compare(v.S, other.S), true
	}
	return 0, false
}

// Like implements the source's %-stripping substring semantics: every
// percent sign is removed and the remainder is checked for substring
// containment, regardless of where the percents sat in the pattern. This
// is a deliberate faithfulness choice — see SPEC_FULL.md §4 and
// DESIGN.md.
func (v Value) Like(pattern string) bool {
	needle := strings.ReplaceAll(pattern, "%", "")
	return strings.Contains(v.String(), needle)
}
