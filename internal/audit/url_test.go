package audit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare domain gets https", in: "example.com", want: "https://example.com"},
		{name: "existing https untouched", in: "https://example.com/a", want: "https://example.com/a"},
		{name: "existing http untouched", in: "http://example.com", want: "http://example.com"},
		{name: "scheme match is case-insensitive", in: "HTTPS://example.com", want: "HTTPS://example.com"},
		{name: "surrounding whitespace trimmed", in: "  example.com \n", want: "https://example.com"},
		{name: "empty rejected", in: "", wantErr: true},
		{name: "whitespace-only rejected", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrEmptyURL)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRelative(t *testing.T) {
	require.Equal(t, "https://example.com/robots.txt", resolveRelative("https://example.com/some/page", "/robots.txt"))
	require.Equal(t, "https://example.com/sitemap.xml", resolveRelative("https://example.com", "/sitemap.xml"))
}
