// Package envvar provides typed lookups of environment variables, used to override fixture defaults without code
// changes e.g. when running against a slow or heavily rate limited account.
package envvar

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetString returns the trimmed value of the environment variable varName, unset or blank variables return "", false.
func GetString(varName string) (string, bool) {
	env, ok := os.LookupEnv(varName)
	if !ok {
		return "", false
	}

	env = strings.TrimSpace(env)

	return env, env != ""
}

// GetInt returns the int value of the environmental variable varName if the env var is not an int or empty it will
// return 0, false.
func GetInt(varName string) (int, bool) {
	env, ok := GetString(varName)
	if !ok {
		return 0, false
	}

	val, err := strconv.Atoi(env)
	if err != nil {
		return 0, false
	}

	return val, true
}

// GetDuration returns the time.Duration value of the environmental variable varName if the env var is empty or not a
// valid duration string it will return 0, false.
func GetDuration(varName string) (time.Duration, bool) {
	env, ok := GetString(varName)
	if !ok {
		return 0, false
	}

	duration, err := time.ParseDuration(env)
	if err != nil {
		return 0, false
	}

	return duration, true
}
