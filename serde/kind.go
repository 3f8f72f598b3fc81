package serde

// Kind classifies the value a Decoder is positioned on.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindBinary
	KindTime
	KindObjectID
	KindObject
	KindArray
	// KindOther covers values with only a tree analog, such as regular
	// expressions, timestamps and decimals.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindTime:
		return "time"
	case KindObjectID:
		return "objectid"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindOther:
		return "other"
	}
	return "invalid"
}
