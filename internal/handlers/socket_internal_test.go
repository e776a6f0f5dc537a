package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSocketID(t *testing.T) {
	tests := []struct {
		raw  interface{}
		want uint
		ok   bool
	}{
		{float64(7), 7, true},
		{"12", 12, true},
		{float64(0), 0, false},
		{float64(-3), 0, false},
		{float64(1.5), 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := parseSocketID(tt.raw)
		assert.Equal(t, tt.ok, ok, "%v", tt.raw)
		assert.Equal(t, tt.want, got, "%v", tt.raw)
	}
}
