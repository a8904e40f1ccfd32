package urlnorm

import (
	"net/url"
	"strings"
)

// Punctuation that naive extraction captures off the end of a URL but that
// is almost never part of it.
const trailingPunctuation = ").,]>\"'"

// Normalizer canonicalizes raw URL strings: tracking parameters are
// stripped, http is coerced to https and surrounding punctuation is
// trimmed. It never fails; anything it cannot parse passes through
// unchanged.
type Normalizer struct {
	trackingParams map[string]bool
}

func NewNormalizer(trackingParams []string) *Normalizer {
	params := make(map[string]bool, len(trackingParams))
	for _, p := range trackingParams {
		params[p] = true
	}
	return &Normalizer{trackingParams: params}
}

// Normalize returns the canonical form of raw. Idempotent: normalizing an
// already normalized URL is a no-op.
func (n *Normalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, trailingPunctuation)

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		// Relative or malformed value, nothing to canonicalize
		return raw
	}

	parsed.RawQuery = n.stripTracking(parsed.RawQuery)

	if parsed.Scheme == "http" {
		parsed.Scheme = "https"
	}

	return parsed.String()
}

// CanonicalKey returns the dedup-key form of raw: normalized, with one
// trailing path slash stripped.
func (n *Normalizer) CanonicalKey(raw string) string {
	normalized := n.Normalize(raw)

	parsed, err := url.Parse(normalized)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return normalized
	}

	if strings.HasSuffix(parsed.Path, "/") && parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
		return parsed.String()
	}
	if parsed.Path == "/" && parsed.RawQuery == "" && parsed.Fragment == "" {
		parsed.Path = ""
		return parsed.String()
	}

	return normalized
}

// stripTracking removes denylisted query keys while preserving the relative
// order of the remaining parameters and any blank values. url.Values is a
// map and would shuffle the order, so the query is walked pair by pair.
func (n *Normalizer) stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if idx := strings.Index(pair, "="); idx >= 0 {
			key = pair[:idx]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if n.trackingParams[key] {
			continue
		}
		kept = append(kept, pair)
	}

	return strings.Join(kept, "&")
}
