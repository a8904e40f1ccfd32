package urlnorm

import (
	"testing"
)

var testTrackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"gclid", "fbclid", "mc_cid", "mc_eid",
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(testTrackingParams)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain url unchanged",
			input:    "https://news.example/article",
			expected: "https://news.example/article",
		},
		{
			name:     "tracking params removed",
			input:    "https://site.example/a?utm_source=x&id=7",
			expected: "https://site.example/a?id=7",
		},
		{
			name:     "all tracking params removed",
			input:    "https://site.example/a?utm_source=x&utm_medium=y&gclid=z",
			expected: "https://site.example/a",
		},
		{
			name:     "parameter order preserved",
			input:    "https://site.example/a?b=2&utm_campaign=c&a=1",
			expected: "https://site.example/a?b=2&a=1",
		},
		{
			name:     "blank values preserved",
			input:    "https://site.example/a?fbclid=x&q=&page=3",
			expected: "https://site.example/a?q=&page=3",
		},
		{
			name:     "scheme coerced to https",
			input:    "http://site.example",
			expected: "https://site.example",
		},
		{
			name:     "trailing punctuation trimmed",
			input:    "https://news.example/article).",
			expected: "https://news.example/article",
		},
		{
			name:     "quotes and brackets trimmed",
			input:    `https://news.example/article]>"'`,
			expected: "https://news.example/article",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  https://news.example/article \n",
			expected: "https://news.example/article",
		},
		{
			name:     "relative url passes through",
			input:    "/r/medicine/comments/abc",
			expected: "/r/medicine/comments/abc",
		},
		{
			name:     "bare word passes through",
			input:    "not-a-url",
			expected: "not-a-url",
		},
		{
			name:     "non-http scheme kept",
			input:    "ftp://files.example/data",
			expected: "ftp://files.example/data",
		},
		{
			name:     "fragment preserved",
			input:    "http://site.example/a?utm_source=x#section",
			expected: "https://site.example/a#section",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(testTrackingParams)

	inputs := []string{
		"https://news.example/article",
		"http://site.example/a?utm_source=x&id=7",
		"https://site.example/a?b=2&utm_campaign=c&a=1&q=",
		"https://news.example/article).",
		"/relative/path",
		"not-a-url",
		"",
		"https://site.example/path/?gclid=abc#frag",
	}

	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestCanonicalKey(t *testing.T) {
	n := NewNormalizer(testTrackingParams)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing slash stripped",
			input:    "https://news.example/a/",
			expected: "https://news.example/a",
		},
		{
			name:     "no trailing slash unchanged",
			input:    "https://news.example/a",
			expected: "https://news.example/a",
		},
		{
			name:     "root slash stripped",
			input:    "https://news.example/",
			expected: "https://news.example",
		},
		{
			name:     "normalization applied first",
			input:    "http://news.example/a/?utm_source=reddit",
			expected: "https://news.example/a",
		},
		{
			name:     "malformed passes through",
			input:    "not-a-url",
			expected: "not-a-url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.CanonicalKey(tt.input)
			if got != tt.expected {
				t.Errorf("CanonicalKey(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonicalKeyConverges(t *testing.T) {
	n := NewNormalizer(testTrackingParams)

	// Variants of the same destination must share one canonical key
	variants := []string{
		"https://news.example/a",
		"https://news.example/a/",
		"http://news.example/a",
		"https://news.example/a/?utm_source=reddit",
		"https://news.example/a?fbclid=xyz",
	}

	expected := n.CanonicalKey(variants[0])
	for _, v := range variants {
		if got := n.CanonicalKey(v); got != expected {
			t.Errorf("CanonicalKey(%q) = %q, expected %q", v, got, expected)
		}
	}
}
