// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses the integer identifiers found in paths, query strings
and command-line arguments.

Use [ParseInt] when the caller must tell "absent" apart from "malformed", and
[PositiveInt] for identifiers that must be present.
*/
package convert

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotPositive is returned by [PositiveInt] for zero, negative or missing values.
var ErrNotPositive = errors.New("must be a positive integer")

// ParseInt parses an optional integer.
//
// Returns:
//   - (v, true, nil) when str holds an integer.
//   - (0, false, nil) when str is empty.
//   - (0, false, err) when str is present but malformed.
func ParseInt(str string) (int, bool, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, false, nil
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, false, err
	}

	return v, true, nil
}

// PositiveInt parses a required identifier greater than zero.
func PositiveInt(str string) (int, error) {
	v, ok, err := ParseInt(str)
	if err != nil || !ok || v <= 0 {
		return 0, ErrNotPositive
	}
	return v, nil
}
