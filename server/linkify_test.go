package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare url",
			in:   "See https://example.com/qkd for details",
			want: "See <a href='https://example.com/qkd' target='_blank'>https://example.com/qkd</a> for details",
		},
		{
			name: "existing anchor untouched",
			in:   "• Doi: <a href='https://doi.org/10.1000/qkd' target='_blank'>https://doi.org/10.1000/qkd</a>",
			want: "• Doi: <a href='https://doi.org/10.1000/qkd' target='_blank'>https://doi.org/10.1000/qkd</a>",
		},
		{
			name: "trailing punctuation stays outside",
			in:   "Read https://example.com/paper.",
			want: "Read <a href='https://example.com/paper' target='_blank'>https://example.com/paper</a>.",
		},
		{
			name: "mixed anchors and bare urls",
			in:   "<a href='https://a.example'>https://a.example</a> and https://b.example",
			want: "<a href='https://a.example'>https://a.example</a> and <a href='https://b.example' target='_blank'>https://b.example</a>",
		},
		{
			name: "no urls",
			in:   "plain text",
			want: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Linkify(tt.in))
		})
	}
}
