package scrape

import "github.com/smartmarks/smartmarks-api/internal/platform"

// Agent is one scraping identity to try against a target page.
type Agent struct {
	Label     string
	UserAgent string
}

// Crawler-bot identities go first: social platforms serve full OpenGraph
// markup to link-preview bots while challenging or stripping it for
// browsers. Browser identities stay last as the generic fallback.
var socialAgents = []Agent{
	{
		Label:     "facebook-preview",
		UserAgent: "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
	},
	{
		Label:     "googlebot",
		UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
	},
	{
		Label:     "twitterbot",
		UserAgent: "Twitterbot/1.0",
	},
	{
		Label:     "desktop-chrome",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	},
	{
		Label:     "mobile-safari",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	},
}

var defaultAgent = Agent{
	Label:     "desktop-chrome",
	UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// AgentsFor returns the ordered list of identities to try for a canonical
// hostname: the full rotation for social platforms, a single standard
// browser identity otherwise.
func AgentsFor(host string) []Agent {
	if platform.IsSocial(host) {
		return socialAgents
	}
	return []Agent{defaultAgent}
}
