// Package scalar converts raw flag tokens to typed values and back.
//
// Flood Modeller files carry untyped text tokens. Coerce applies a fixed
// trial order (integer, float, string) so that callers can work with real
// numbers, and Format is its inverse for serialization. The two functions
// are total: every token coerces to some value and every supported value
// formats to some token.
package scalar

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Coerce converts a raw token to an int64, a float64 or a string.
//
// Tokens written on Windows often embed backslash path separators. On
// non-Windows hosts a token containing a backslash is assumed to be such a
// path and is rewritten with forward slashes. Coerce never fails; a token
// that is not numeric comes back as a string.
func Coerce(token string) any {
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f
	}
	if runtime.GOOS != "windows" && strings.Contains(token, `\`) {
		return strings.ReplaceAll(token, `\`, "/")
	}
	return token
}

// Normalize widens the integer and float types a caller may hand us to the
// two canonical kinds used by Coerce, so that equality checks behave.
func Normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return float64(n)
	default:
		return v
	}
}

// Format renders a coerced value back to its token form. Floats use the
// shortest representation that round-trips through Coerce.
func Format(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case bool:
		if n {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(v)
	}
}
