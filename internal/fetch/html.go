package fetch

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// findPDFLink scans an HTML landing page for a citation_pdf_url meta tag and
// resolves it against the page URL. Publisher landing pages (ACM, Springer,
// arXiv abstract pages) all carry this tag for indexers.
func findPDFLink(page []byte, base *url.URL) (string, bool) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", false
	}

	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var name, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					name = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if strings.EqualFold(name, "citation_pdf_url") && content != "" {
				found = content
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if found == "" {
		return "", false
	}
	ref, err := url.Parse(found)
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return ref.String(), true
}
