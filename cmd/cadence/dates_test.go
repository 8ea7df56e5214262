package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"today", "2024-01-08"},
		{"Tomorrow", "2024-01-09"},
		{"yesterday", "2024-01-07"},
		{" 2024-02-29 ", "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in, clock)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := parseDay("next week", clock)
	assert.Error(t, err)
}
