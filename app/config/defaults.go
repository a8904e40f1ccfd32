package config

import "fmt"

// Default collections mirror the deployment this tool was written for:
// medicine-focused discussion communities on reddit.
var defaultCollections = []string{
	"medicine",
	"emergencymedicine",
	"FamilyMedicine",
	"InternalMedicine",
	"criticalcare",
	"Psychiatry",
	"Anesthesiology",
	"Radiology",
	"neurology",
	"ophthalmology",
}

var defaultTrackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"gclid", "fbclid", "mc_cid", "mc_eid",
}

// Hosts belonging to the source platform itself, including its short-link
// and media-CDN domains. Links resolving here are never output items.
var defaultOwnHosts = []string{
	"reddit.com",
	"www.reddit.com",
	"old.reddit.com",
	"out.reddit.com",
	"redd.it",
	"i.redd.it",
	"v.redd.it",
	"preview.redd.it",
}

var defaultOwnSuffixes = []string{
	"reddit.com",
	"redd.it",
}

// Platforms that never host citable articles. Matching is suffix-based on
// the registered domain, never substring.
var defaultBlockedSuffixes = []string{
	"youtube.com",
	"youtu.be",
	"twitter.com",
	"x.com",
	"facebook.com",
	"instagram.com",
	"tiktok.com",
	"twitch.tv",
	"discord.gg",
	"docs.google.com",
	"drive.google.com",
	"forms.gle",
	"imgur.com",
	"giphy.com",
}

var defaultBlockedExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico",
	".mp4", ".webm", ".mov", ".mp3", ".wav",
	".zip", ".gz", ".tar", ".rar", ".7z",
	".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
}

// Title signatures of interstitial pages: the fetch got a 200 but never
// reached article content. Matched case-insensitively as substrings.
var defaultJunkTitles = []string{
	"just a moment",
	"attention required",
	"access denied",
	"access to this page has been denied",
	"are you a robot",
	"are you a human",
	"please verify you are a human",
	"enable javascript",
	"javascript is disabled",
	"security check",
	"cloudflare",
	"page not found",
	"subscribe to read",
	"sign in to continue",
	"before you continue",
	"consent",
}

// Default returns the built-in run configuration used when no sources file
// is given.
func Default() *Config {
	cfg := &Config{Tables: defaultTables()}
	for _, name := range defaultCollections {
		cfg.Sources = append(cfg.Sources, Source{
			Name: name,
			URL:  fmt.Sprintf("https://www.reddit.com/r/%s/new.rss", name),
		})
	}
	return cfg
}

func defaultTables() Tables {
	return Tables{
		TrackingParams:    defaultTrackingParams,
		OwnHosts:          defaultOwnHosts,
		OwnSuffixes:       defaultOwnSuffixes,
		BlockedSuffixes:   defaultBlockedSuffixes,
		BlockedExtensions: defaultBlockedExtensions,
		JunkTitles:        defaultJunkTitles,
	}
}
