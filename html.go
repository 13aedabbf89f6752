package textsplit

import (
	"fmt"
	"io"
	"maps"
	"strings"

	"golang.org/x/net/html"
)

// DefaultHTMLHeaders splits on the first three heading tags.
func DefaultHTMLHeaders() []HeaderSpec {
	return []HeaderSpec{
		{Prefix: "h1", Label: "Header 1"},
		{Prefix: "h2", Label: "Header 2"},
		{Prefix: "h3", Label: "Header 3"},
	}
}

// HTMLSplitter parses an HTML document and cuts it at configured heading
// tags, tagging every chunk with the text of the headings enclosing it.
// Content is emitted per block-level element in document order; script,
// style and head subtrees are ignored. Heading text is dropped from chunk
// content unless WithStripHeaders(false) keeps it.
type HTMLSplitter struct {
	levels       map[string]int    // heading tag to level
	labels       map[string]string // heading tag to metadata label
	returnEach   bool
	stripHeaders bool
}

// NewHTMLSplitter builds an HTMLSplitter from opts, splitting on
// DefaultHTMLHeaders when none are configured. Header prefixes must be
// heading tag names, h1 through h6.
func NewHTMLSplitter(opts ...Option) (*HTMLSplitter, error) {
	o := NewOptions(opts...)
	headers := o.Headers
	if len(headers) == 0 {
		headers = DefaultHTMLHeaders()
	}
	levels := make(map[string]int, len(headers))
	labels := make(map[string]string, len(headers))
	for _, h := range headers {
		tag := strings.ToLower(h.Prefix)
		if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
			return nil, fmt.Errorf("textsplit: html header tag %q: want h1 through h6", h.Prefix)
		}
		levels[tag] = int(tag[1] - '0')
		labels[tag] = h.Label
	}
	return &HTMLSplitter{
		levels:       levels,
		labels:       labels,
		returnEach:   o.ReturnEach,
		stripHeaders: o.StripHeaders,
	}, nil
}

// SplitText parses text as HTML and returns header-lineage chunks.
func (s *HTMLSplitter) SplitText(text string) ([]Chunk, error) {
	return s.Split(strings.NewReader(text))
}

// Split parses HTML from r and returns header-lineage chunks in document
// order. Adjacent content under the same lineage is aggregated into one
// chunk unless WithReturnEach(true) keeps one chunk per element.
func (s *HTMLSplitter) Split(r io.Reader) ([]Chunk, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("textsplit: parse html: %w", err)
	}
	st := &htmlWalkState{metadata: map[string]string{}}
	s.walk(doc, st)
	st.flushText()

	if s.returnEach {
		return recordChunks(st.records), nil
	}
	return recordChunks(aggregateRecords(st.records)), nil
}

// htmlWalkState accumulates inline text and lineage records during the walk.
type htmlWalkState struct {
	records  []lineRecord
	text     strings.Builder
	stack    []headerEntry
	metadata map[string]string
}

// flushText turns accumulated inline text into a record under the current
// lineage. Whitespace-only text is discarded.
func (st *htmlWalkState) flushText() {
	content := normalizeSpace(st.text.String())
	st.text.Reset()
	if content == "" {
		return
	}
	st.records = append(st.records, lineRecord{
		content:  content,
		metadata: maps.Clone(st.metadata),
	})
}

func (s *HTMLSplitter) walk(n *html.Node, st *htmlWalkState) {
	switch n.Type {
	case html.TextNode:
		st.text.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skipHTMLElement(n.Data) {
			return
		}
		if level, ok := s.levels[n.Data]; ok {
			st.flushText()
			heading := collectText(n)
			if label := s.labels[n.Data]; label != "" {
				for len(st.stack) > 0 && st.stack[len(st.stack)-1].level >= level {
					st.stack = st.stack[:len(st.stack)-1]
				}
				st.stack = append(st.stack, headerEntry{level: level, label: label, text: heading})
				st.metadata = lineageMetadata(st.stack)
			}
			if !s.stripHeaders && heading != "" {
				st.records = append(st.records, lineRecord{
					content:  heading,
					metadata: maps.Clone(st.metadata),
				})
			}
			return
		}
		if n.Data == "br" {
			st.text.WriteString("\n")
			return
		}
		if blockHTMLElement(n.Data) {
			st.flushText()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				s.walk(c, st)
			}
			st.flushText()
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.walk(c, st)
	}
}

// collectText returns the normalized text of a node subtree.
func collectText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode {
			if skipHTMLElement(n.Data) {
				return
			}
			if n.Data == "br" {
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return normalizeSpace(b.String())
}

// normalizeSpace collapses whitespace runs into single spaces, the way
// browsers render inline text.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func skipHTMLElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "head", "iframe", "svg":
		return true
	}
	return false
}

func blockHTMLElement(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "aside", "main", "header", "footer",
		"nav", "ul", "ol", "li", "dl", "dt", "dd", "table", "thead", "tbody",
		"tfoot", "tr", "td", "th", "caption", "blockquote", "pre", "figure",
		"figcaption", "hr", "form", "fieldset", "address", "details", "summary":
		return true
	}
	return false
}
