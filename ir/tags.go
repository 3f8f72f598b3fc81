package ir

import "strings"

// Tags marking tree values that stand in for BSON types with no
// direct tree analog.
const (
	TagBinary        = "!binary"
	TagUndefined     = "!undefined"
	TagOID           = "!oid"
	TagDateTime      = "!datetime"
	TagRegex         = "!regex"
	TagDBPointer     = "!dbpointer"
	TagJavaScript    = "!javascript"
	TagSymbol        = "!symbol"
	TagCodeWithScope = "!codewithscope"
	TagTimestamp     = "!timestamp"
	TagInt64         = "!int64"
	TagDecimal128    = "!decimal128"
	TagMinKey        = "!minkey"
	TagMaxKey        = "!maxkey"
)

// TagArgs splits a tag such as "!binary(4)" into its head ("!binary")
// and arguments (["4"]).
func TagArgs(tag string) (string, []string) {
	open := strings.IndexByte(tag, '(')
	if open == -1 || !strings.HasSuffix(tag, ")") {
		return tag, nil
	}
	inner := tag[open+1 : len(tag)-1]
	if inner == "" {
		return tag[:open], nil
	}
	return tag[:open], strings.Split(inner, ",")
}

func TagCompose(tag string, args []string) string {
	if len(args) == 0 {
		return tag
	}
	return tag + "(" + strings.Join(args, ",") + ")"
}

// TagHead returns the head of a tag, without arguments.
func TagHead(tag string) string {
	hd, _ := TagArgs(tag)
	return hd
}
