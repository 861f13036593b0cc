package utils

import (
	"fmt"
	"strconv"
)

// ToString converts various types to string. Booleans become "1"/"0" to
// match how the admin tables store flag columns.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
