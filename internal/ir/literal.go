package ir

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DateTimeLayout is the TypeQL datetime literal layout. Values are rendered
// in UTC without a zone suffix.
const DateTimeLayout = "2006-01-02T15:04:05.999999999"

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// Literal renders v as a TypeQL literal.
//
//	String("a\"b")   -> "a\"b"
//	Integer(25)      -> 25
//	Double(2)        -> 2.0
//	Boolean(true)    -> true
//	DateTime(t)      -> 2024-01-02T03:04:05
func Literal(v Value) string {
	switch val := v.(type) {
	case String:
		return `"` + literalEscaper.Replace(norm.NFC.String(string(val))) + `"`
	case Integer:
		return strconv.FormatInt(int64(val), 10)
	case Double:
		s := strconv.FormatFloat(float64(val), 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	case Boolean:
		return strconv.FormatBool(bool(val))
	case DateTime:
		return time.Time(val).UTC().Format(DateTimeLayout)
	default:
		return ""
	}
}
