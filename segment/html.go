package segment

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/slidemap/model"
)

// blockTags are HTML elements that terminate a text block when closed
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "section": true,
	"article": true, "blockquote": true, "pre": true, "figcaption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// SegmentHTML extracts plain text from HTML-formatted page content and
// segments it. Vision services sometimes return page text with markup;
// block-level elements become paragraph boundaries, script and style
// content is dropped. Malformed markup is tolerated: the tokenizer
// processes whatever structure it can recover.
func (s *Segmenter) SegmentHTML(htmlText string, pageNumber int) []model.TextSection {
	if strings.TrimSpace(htmlText) == "" {
		return nil
	}

	var sb strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(htmlText))
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			} else if tag == "br" {
				sb.WriteString("\n")
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if skipDepth > 0 {
					skipDepth--
				}
			} else if blockTags[tag] {
				sb.WriteString("\n\n")
			}

		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "br" {
				sb.WriteString("\n")
			}

		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}

	return s.Segment(sb.String(), pageNumber)
}
