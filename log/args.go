package log

import (
	"fmt"
	"strings"
)

// maskedValue has a fixed length to avoid revealing any details about the masked string.
const maskedValue = "*****"

// UserTagArguments returns a new slice where the value of each 'key=value' argument whose key is in 'keysToTag' is
// surrounded by <ud></ud> tags.
func UserTagArguments(args, keysToTag []string) []string {
	return replaceValues(args, keysToTag, func(value string) string { return fmt.Sprintf("<ud>%s</ud>", value) })
}

// MaskArguments returns a new slice where the value of each 'key=value' argument whose key is in 'keysToMask' is
// replaced by a fixed number of *.
//
// NOTE: Empty values are not masked, so that logs still show when a value is missing.
func MaskArguments(args, keysToMask []string) []string {
	return replaceValues(args, keysToMask, func(value string) string {
		if value == "" {
			return value
		}

		return maskedValue
	})
}

// MaskAndUserTagArguments is a convenient way of calling both UserTagArguments and MaskArguments on the given data. It
// will return the resulting string slice joined with a space between element for easy logging.
func MaskAndUserTagArguments(args, keysToTag, keysToMask []string) string {
	return strings.TrimSpace(strings.Join(MaskArguments(UserTagArguments(args, keysToTag), keysToMask), " "))
}

func replaceValues(args, keys []string, fn func(value string) string) []string {
	ret := make([]string, len(args))
	copy(ret, args)

	for i, arg := range ret {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || !keyMatches(key, keys) {
			continue
		}

		ret[i] = key + "=" + fn(value)
	}

	return ret
}

func keyMatches(key string, referenceKeys []string) bool {
	for _, referenceKey := range referenceKeys {
		if strings.EqualFold(key, referenceKey) {
			return true
		}
	}

	return false
}
