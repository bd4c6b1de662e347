// Copyright 2018 The vapash Authors
// This file is part of the vapash library.
//
// The vapash library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The vapash library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the vapash library. If not, see <http://www.gnu.org/licenses/>.

// Package sense answers "is this feature on?" questions from the process
// environment, so the library never has to grow flag parsing of its own.
package sense

import (
	"fmt"
	"os"
	"strings"
)

// Getenv is a trivial alias kept so callers depend on this package rather
// than reaching for os directly.
func Getenv(name string) string {
	return os.Getenv(name)
}

// EnvOr returns the value of the environment variable, or the default if unset.
func EnvOr(name, def string) string {
	x, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	return x
}

// EnvBool returns false if empty/unset/falsy, true if otherwise non-empty.
func EnvBool(name string) bool {
	x, ok := os.LookupEnv(name)
	if !ok {
		return false
	}
	return boolString(x, false, true)
}

// EnvBoolDisabled returns true only if nonempty+falsy (such as "0" or "false")
//
// a bit different logic than !EnvBool
func EnvBoolDisabled(name string) bool {
	x, ok := os.LookupEnv(name)
	if !ok {
		return false
	}
	return !boolString(x, true, true)
}

func boolString(s string, unset bool, unparsable bool) bool {
	switch strings.ToLower(s) {
	case "":
		return unset
	case "true", "yes", "1", "on", "enabled", "enable":
		return true
	case "false", "no", "0", "off", "disabled", "disable":
		return false
	default:
		fmt.Fprintf(os.Stderr, "warn: unknown bool string: %q\n", s)
		return unparsable
	}
}
