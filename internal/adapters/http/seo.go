package http

import (
	"encoding/xml"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapPages are the public pages and their priorities.
var sitemapPages = []struct {
	path     string
	priority string
}{
	{"", "1.0"},
	{"/results", "0.8"},
}

// SitemapHandler serves /sitemap.xml for the configured site.
func SitemapHandler(siteURL string) fiber.Handler {
	base := strings.TrimRight(siteURL, "/")

	set := urlSet{XMLNS: sitemapNS}
	for _, p := range sitemapPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + p.path, ChangeFreq: "weekly", Priority: p.priority})
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		panic("sitemap marshal: " + err.Error())
	}
	doc := append([]byte(xml.Header), body...)

	return func(c *fiber.Ctx) error {
		c.Set("Content-Type", "application/xml")
		c.Set("Cache-Control", "public, max-age=86400")
		return c.Send(doc)
	}
}

// RobotsHandler serves /robots.txt, allowing all crawlers.
func RobotsHandler(siteURL string) fiber.Handler {
	content := "User-agent: *\nAllow: /\nSitemap: " + strings.TrimRight(siteURL, "/") + "/sitemap.xml"

	return func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/plain")
		c.Set("Cache-Control", "public, max-age=86400")
		return c.SendString(content)
	}
}
