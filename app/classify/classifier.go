package classify

import (
	"net/url"
	"path"
	"strings"
)

// Class is the destination category of a candidate link.
type Class int

const (
	// Acceptable is an external destination worth resolving.
	Acceptable Class = iota
	// OwnPlatform is the source platform itself (including its short-link
	// and media-CDN domains). Never emitted.
	OwnPlatform
	// Blocked is a platform or file type known to never host citable
	// articles.
	Blocked
)

func (c Class) String() string {
	switch c {
	case OwnPlatform:
		return "own_platform"
	case Blocked:
		return "blocked"
	default:
		return "acceptable"
	}
}

// Classifier decides whether a URL belongs to the source platform, a blocked
// platform, or is an acceptable external destination. The host and extension
// tables are injected configuration. The design is allowlist-by-exclusion:
// the set of legitimate article domains is unbounded, the set of
// definitely-not-an-article domains and extensions is small and enumerable.
type Classifier struct {
	ownHosts          map[string]bool
	ownSuffixes       []string
	blockedSuffixes   []string
	blockedExtensions map[string]bool
}

func NewClassifier(ownHosts, ownSuffixes, blockedSuffixes, blockedExtensions []string) *Classifier {
	hosts := make(map[string]bool, len(ownHosts))
	for _, h := range ownHosts {
		hosts[strings.ToLower(h)] = true
	}

	exts := make(map[string]bool, len(blockedExtensions))
	for _, e := range blockedExtensions {
		exts[strings.ToLower(e)] = true
	}

	return &Classifier{
		ownHosts:          hosts,
		ownSuffixes:       lower(ownSuffixes),
		blockedSuffixes:   lower(blockedSuffixes),
		blockedExtensions: exts,
	}
}

// Run classifies a single URL. Unparseable input is conservatively Blocked.
func (c *Classifier) Run(rawURL string) Class {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return Blocked
	}

	host := strings.ToLower(parsed.Hostname())

	if c.ownHosts[host] || matchesSuffix(host, c.ownSuffixes) {
		return OwnPlatform
	}

	if matchesSuffix(host, c.blockedSuffixes) {
		return Blocked
	}

	ext := strings.ToLower(path.Ext(parsed.Path))
	if ext != "" && c.blockedExtensions[ext] {
		return Blocked
	}

	return Acceptable
}

// matchesSuffix reports whether host equals one of the domains or is a
// subdomain of one. Label-exact: "m.youtube.com" matches "youtube.com",
// "notyoutube.com" does not.
func matchesSuffix(host string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

func lower(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
