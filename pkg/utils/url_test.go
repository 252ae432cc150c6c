package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKey(t *testing.T) {
	assert.Equal(t, HashKey("google", "acme"), HashKey("google", "acme"))
	assert.NotEqual(t, HashKey("google", "acme"), HashKey("bing", "acme"))
	assert.Len(t, HashKey("x"), 64)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"acme news":          "acme-news",
		"  Best  Widgets!! ": "best-widgets",
		"café & co":          "café-co",
		"--":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://serpapi.com/")
	require.NoError(t, err)
	got, err := ToAbsoluteURL(base, "search.json")
	require.NoError(t, err)
	assert.Equal(t, "https://serpapi.com/search.json", got)
}
