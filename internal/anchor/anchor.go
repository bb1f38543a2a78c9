// Package anchor maps the author's current structural heading to a fragment
// identifier in the generated output document.
//
// The generated document is treated as opaque markup with one documented
// contract: a structural opening tag (section, div, article) whose
// immediately following header tag's text equals the heading text exactly
// identifies the heading's anchor, and the structural element's id attribute
// is the fragment. Resolution is best effort; every failure degrades to
// "no fragment" so the view falls back to top of document.
package anchor

import (
	"os"
	"strings"

	"golang.org/x/net/html"
)

// Resolve returns the fragment for headingText inside the generated output
// at outputPath. The second return is false when no structural element
// matches, when the heading is empty (cursor at top level), or when the
// output cannot be read.
func Resolve(headingText, outputPath string) (string, bool) {
	if strings.TrimSpace(headingText) == "" {
		return "", false
	}
	f, err := os.Open(outputPath)
	if err != nil {
		return "", false
	}
	defer func() { _ = f.Close() }()

	z := html.NewTokenizer(f)
	var (
		candidate    string
		candidateSet bool
		inHeader     bool
		headerTag    string
		text         strings.Builder
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// EOF or malformed markup: no match.
			return "", false

		case html.StartTagToken:
			if inHeader {
				// Inline markup inside the header; keep collecting text.
				continue
			}
			name, hasAttr := z.TagName()
			tag := string(name)
			switch {
			case isStructural(tag):
				candidate, candidateSet = tagID(z, hasAttr)
			case isHeader(tag):
				if candidateSet {
					inHeader = true
					headerTag = tag
					text.Reset()
				}
			default:
				// Anything between the structural tag and its header
				// breaks adjacency.
				candidateSet = false
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if inHeader && tag == headerTag {
				if strings.TrimSpace(text.String()) == headingText {
					return candidate, true
				}
				inHeader = false
				candidateSet = false
			}

		case html.SelfClosingTagToken:
			if !inHeader {
				candidateSet = false
			}

		case html.TextToken:
			t := z.Text()
			if inHeader {
				text.Write(t)
			} else if candidateSet && strings.TrimSpace(string(t)) != "" {
				candidateSet = false
			}
		}
	}
}

func isStructural(tag string) bool {
	switch tag {
	case "section", "div", "article":
		return true
	}
	return false
}

func isHeader(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// tagID extracts the id attribute of the current start tag.
func tagID(z *html.Tokenizer, hasAttr bool) (string, bool) {
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "id" && len(val) > 0 {
			return string(val), true
		}
	}
	return "", false
}
