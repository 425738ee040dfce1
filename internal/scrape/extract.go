package scrape

import (
	"html"
	"regexp"
	"strings"
)

// ProjectInfo is the metadata pulled from one project page.
type ProjectInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url,omitempty"`
}

var (
	projectAnchorRe = regexp.MustCompile(`<a[^>]*class="[^"]*link-to-software[^"]*"[^>]*>`)
	hrefRe          = regexp.MustCompile(`href="([^"]+)"`)
	ogTitleRe       = regexp.MustCompile(`<meta[^>]+property="og:title"[^>]+content="([^"]*)"`)
	ogDescriptionRe = regexp.MustCompile(`<meta[^>]+property="og:description"[^>]+content="([^"]*)"`)
	titleTagRe      = regexp.MustCompile(`<title[^>]*>([^<]*)</title>`)
)

// ExtractProjectLinks pulls project URLs out of a gallery page. The
// gallery marks each card with a link-to-software anchor.
func ExtractProjectLinks(page string) []string {
	var urls []string
	seen := make(map[string]struct{})
	for _, anchor := range projectAnchorRe.FindAllString(page, -1) {
		match := hrefRe.FindStringSubmatch(anchor)
		if match == nil {
			continue
		}
		url := html.UnescapeString(match[1])
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	return urls
}

// ExtractProjectInfo pulls the title and description from a project
// page, preferring OpenGraph tags and falling back to the title tag.
func ExtractProjectInfo(page string) ProjectInfo {
	info := ProjectInfo{
		Title:       metaContent(ogTitleRe, page),
		Description: metaContent(ogDescriptionRe, page),
	}
	if info.Title == "" {
		if match := titleTagRe.FindStringSubmatch(page); match != nil {
			info.Title = strings.TrimSpace(html.UnescapeString(match[1]))
		}
	}
	return info
}

func metaContent(re *regexp.Regexp, page string) string {
	match := re.FindStringSubmatch(page)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(match[1]))
}
