package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatShortNotation(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		expected string
	}{
		{name: "zero", value: 0, expected: "0"},
		{name: "small positive", value: 999, expected: "999"},
		{name: "exactly 1k", value: 1000, expected: "1.0k"},
		{name: "1.5k", value: 1500, expected: "1.5k"},
		{name: "10k", value: 10000, expected: "10k"},
		{name: "999k", value: 999_999, expected: "999k"},
		{name: "1.25M", value: 1_250_000, expected: "1.25M"},
		{name: "3B", value: 3_000_000_000, expected: "3.00B"},
		{name: "negative", value: -1500, expected: "-1.5k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatShortNotation(tt.value))
		})
	}
}

func TestFormatWaitDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    time.Duration
		expected string
	}{
		{name: "elapsed", value: -time.Second, expected: "now"},
		{name: "rounds up seconds", value: 30 * time.Second, expected: "1m"},
		{name: "hours and minutes", value: 2*time.Hour + 5*time.Minute, expected: "2h 5m"},
		{name: "whole hour", value: time.Hour, expected: "1h"},
		{name: "days", value: 36 * time.Hour, expected: "1d 12h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatWaitDuration(tt.value))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "75%", FormatPercent(75))
	assert.Equal(t, "33.3%", FormatPercent(33.333))
}
