// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trackbook/internal/core/plan"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want plan.Date
	}{
		{"2024-03-05", plan.NewDate(2024, time.March, 5)},
		{"2024-03-05T00:00:00.000Z", plan.NewDate(2024, time.March, 5)},
		{"2024-03-05T23:30:00-05:00", plan.NewDate(2024, time.March, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := plan.ParseDate(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time))
		})
	}

	for _, raw := range []string{"", "2024", "03/05/2024", "2024-13-01"} {
		_, err := plan.ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	start := plan.NewDate(2024, time.March, 9)

	assert.Equal(t, 3, start.DaysUntil(start.AddDays(3)))
	assert.Equal(t, -2, start.DaysUntil(start.AddDays(-2)))
	assert.Equal(t, "2024-03-31", start.AddDays(22).String())
	assert.Equal(t, "2024-03-09T23:59:59Z", start.EndOfDay())

	// Distances past the range of time.Duration stay exact.
	assert.Equal(t, 146097, plan.NewDate(1900, time.January, 1).DaysUntil(plan.NewDate(2300, time.January, 1)))
	assert.Equal(t, 738953, plan.Date{}.DaysUntil(start))
	assert.Equal(t, -738954, start.AddDays(1).DaysUntil(plan.Date{}))

	// A wall clock late in the evening still lands on its own calendar day.
	lima := time.FixedZone("PET", -5*60*60)
	evening := time.Date(2024, time.March, 9, 22, 0, 0, 0, lima)
	assert.Equal(t, "2024-03-09", plan.DateOf(evening).String())
}

func TestDate_JSON(t *testing.T) {
	var holder struct {
		Date plan.Date `json:"date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-05T00:00:00.000Z"}`), &holder))
	assert.Equal(t, "2024-03-05", holder.Date.String())

	data, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-05"}`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &holder))
	assert.True(t, holder.Date.IsZero())

	data, err = json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":null}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"date":20240305}`), &holder))
}
