package dump

// ValueKind discriminates the scalar shapes an INSERT tuple can carry
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
)

// Value is one scalar extracted from an INSERT tuple.
// Numbers keep their original dump text so nothing is lost to
// float conversion on the way to CSV.
type Value struct {
	Kind ValueKind
	Text string // resolved string or raw numeric text; empty for NULL
}

// Row is one ordered tuple of values belonging to a table
type Row []Value

func Null() Value {
	return Value{Kind: KindNull}
}

func Number(text string) Value {
	return Value{Kind: KindNumber, Text: text}
}

func String(text string) Value {
	return Value{Kind: KindString, Text: text}
}

// IsNull reports whether the value was the unquoted NULL literal
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}
