// Package sitecheck inspects a landing-page directory before it is
// served, reporting the page title and local references that point at
// files missing from the directory.
package sitecheck

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Report summarizes an inspection of a page directory.
type Report struct {
	// Title is the text content of the page's <title> element, if any.
	Title string
	// MissingRefs lists local href/src values in index.html whose target
	// files do not exist under the directory, sorted and deduplicated.
	MissingRefs []string
}

// Inspect parses dir/index.html and checks every local reference against
// the filesystem. Returns an error satisfying os.IsNotExist when the
// directory has no index.html.
func Inspect(dir string) (*Report, error) {
	f, err := os.Open(filepath.Join(dir, "index.html"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse index.html: %w", err)
	}

	report := &Report{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	seen := make(map[string]bool)
	for _, ref := range localRefs(doc.Get(0)) {
		rel := refPath(ref)
		if rel == "" || seen[rel] {
			continue
		}
		seen[rel] = true
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			report.MissingRefs = append(report.MissingRefs, ref)
		}
	}
	sort.Strings(report.MissingRefs)
	return report, nil
}

// localRefs walks the document tree collecting href and src values that
// point into the served directory. External URLs, fragment anchors and
// non-file schemes are skipped.
func localRefs(doc *html.Node) []string {
	var refs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "href" && attr.Key != "src" {
					continue
				}
				if isLocalRef(attr.Val) {
					refs = append(refs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs
}

func isLocalRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") {
		return false
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") {
		return false
	}
	for _, scheme := range []string{"mailto:", "tel:", "data:", "javascript:"} {
		if strings.HasPrefix(ref, scheme) {
			return false
		}
	}
	return true
}

// refPath reduces a local reference to the relative file path it maps
// to: query and fragment dropped, leading slash trimmed. Directory
// references resolve to their index.html, matching the file server.
func refPath(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" || strings.HasSuffix(ref, "/") {
		ref += "index.html"
	}
	return ref
}
