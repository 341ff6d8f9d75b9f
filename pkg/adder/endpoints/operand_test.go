package endpoints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOperand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"0", "0"},
		{"2", "2"},
		{"-1", "-1"},
		{"+7", "7"},
		{"  42", "42"},
		{"\t\n9", "9"},
		{"12px", "12"},
		{"3.9", "3"},
		{"-0", "0"},
		{"007", "7"},
		{"foo", "0"},
		{"-", "0"},
		{"+", "0"},
		{"--1", "0"},
		{"x12", "0"},
		{"1e3", "1"},
		{"9223372036854775807", "9223372036854775807"},
		{"-9223372036854775808", "-9223372036854775808"},
		{"9223372036854775808", "9223372036854775808"},
		{"99999999999999999999", "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOperand(tt.in).String())
		})
	}
}
