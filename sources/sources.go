// Package sources holds the feed URL list and publisher name resolution.
package sources

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// DefaultFeeds is the built-in publisher list: government and regulator
// feeds, international organisations, sector media, and regional outlets.
var DefaultFeeds = []string{
	// Government & regulators
	"https://www.gov.uk/government/organisations/home-office.atom",
	"https://www.gov.uk/government/organisations/uk-visas-and-immigration.atom",
	"https://www.canada.ca/en/immigration-refugees-citizenship/atom.xml",
	"https://www.uscis.gov/news/rss.xml",
	"https://www.homeaffairs.gov.au/news-media/rss",
	"https://www.education.gov.au/news/rss",
	"https://enz.govt.nz/news/feed/",
	"https://ec.europa.eu/home-affairs/news/feed_en",

	// International orgs / think tanks
	"https://oecdedutoday.com/feed/",
	"https://wenr.wes.org/feed",
	"https://www.migrationpolicy.org/rss.xml",
	"https://www.unesco.org/en/rss-feeds/rss/education",

	// Sector media
	"https://monitor.icef.com/feed/",
	"https://thepienews.com/news/feed/",
	"https://thepienews.com/category/news/government/feed/",
	"https://www.universityworldnews.com/rss/",
	"https://studytravel.network/magazine/rss",
	"https://www.qs.com/feed/",

	// Regional / Asia
	"https://www.scmp.com/rss/91/feed",      // SCMP Education
	"https://www.scmp.com/rss/318824/feed",  // SCMP China Policy
	"https://www.koreaherald.com/rss/013018000000.html",
	"https://timesofindia.indiatimes.com/rssfeeds/913168846.cms",
	"https://www.thehindu.com/education/feeder/default.rss",
}

// nameEntry maps a hostname fragment to a display name. Kept as an ordered
// slice so substring resolution is deterministic.
type nameEntry struct {
	fragment string
	name     string
}

var nameTable = []nameEntry{
	{"gov.uk", "UK Government"},
	{"canada.ca", "IRCC Canada"},
	{"uscis.gov", "USCIS"},
	{"homeaffairs", "Dept of Home Affairs (AU)"},
	{"monitor.icef", "ICEF Monitor"},
	{"thepienews", "The PIE News"},
	{"universityworldnews", "University World News"},
	{"studyinternational", "Study International"},
	{"timeshighereducation", "Times Higher Education"},
	{"scmp.com", "South China Morning Post"},
	{"koreaherald.com", "Korea Herald"},
	{"education.gov.au", "Dept of Education (AU)"},
	{"enz.govt.nz", "Education New Zealand"},
	{"europa.eu", "EU Commission"},
}

// fallbackName is used when a link has no parseable host at all.
const fallbackName = "Source"

// ResolveName returns the human-readable publisher name for a link: a
// substring lookup over the name table, falling back to the bare hostname.
func ResolveName(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return fallbackName
	}
	host := strings.ToLower(u.Hostname())
	for _, e := range nameTable {
		if strings.Contains(host, e.fragment) {
			return e.name
		}
	}
	if host == "" {
		return fallbackName
	}
	return host
}

// LoadFile reads a curated feed list: one URL per line, blank lines ignored,
// comments via a leading '#'.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sources file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return urls, nil
}

// Merge concatenates feed lists, dropping repeats while preserving order.
func Merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, u := range list {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}
