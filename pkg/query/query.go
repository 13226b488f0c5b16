// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses comma-separated lists from configuration values and
// command-line arguments.
package query

import (
	"fmt"
	"strings"

	"github.com/taibuivan/trackbook/pkg/convert"
)

// StringSlice splits val on commas and drops blank entries.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// PositiveInts parses every entry of vals, each of which may itself be a
// comma-separated list ("101,102"). The first malformed entry fails the lot.
func PositiveInts(vals []string) ([]int, error) {
	var res []int
	for _, val := range vals {
		for _, entry := range StringSlice(val) {
			id, err := convert.PositiveInt(entry)
			if err != nil {
				return nil, fmt.Errorf("%q %w", entry, err)
			}
			res = append(res, id)
		}
	}
	return res, nil
}
