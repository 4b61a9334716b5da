package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIcebreakers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "json array",
			raw:  `["Hi there", "Seen any good films?"]`,
			want: []string{"Hi there", "Seen any good films?"},
		},
		{
			name: "fenced json",
			raw:  "```json\n[\"Coffee or tea?\"]\n```",
			want: []string{"Coffee or tea?"},
		},
		{
			name: "plain lines",
			raw:  "First line\n\nSecond line\n",
			want: []string{"First line", "Second line"},
		},
		{
			name: "blank entries dropped",
			raw:  `["  ", "Hello"]`,
			want: []string{"Hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIcebreakers(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIcebreakersEmpty(t *testing.T) {
	_, err := ParseIcebreakers("   ")
	assert.Error(t, err)

	_, err = ParseIcebreakers(`[]`)
	assert.Error(t, err)
}
