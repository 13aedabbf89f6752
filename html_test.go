package textsplit

import (
	"reflect"
	"testing"
)

func TestHTMLSplitter(t *testing.T) {
	s, err := NewHTMLSplitter()
	if err != nil {
		t.Fatalf("NewHTMLSplitter: %v", err)
	}

	doc := "<html><body>" +
		"<h1>Intro</h1><p>First paragraph.</p>" +
		"<h2>Details</h2><p>More text.</p>" +
		"</body></html>"
	chunks, err := s.SplitText(doc)
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0].Text != "First paragraph." {
		t.Fatalf("unexpected first chunk text %q", chunks[0].Text)
	}
	if !reflect.DeepEqual(chunks[0].Metadata, map[string]any{"Header 1": "Intro"}) {
		t.Fatalf("unexpected first chunk metadata %v", chunks[0].Metadata)
	}
	if chunks[1].Text != "More text." {
		t.Fatalf("unexpected second chunk text %q", chunks[1].Text)
	}
	wantMeta := map[string]any{"Header 1": "Intro", "Header 2": "Details"}
	if !reflect.DeepEqual(chunks[1].Metadata, wantMeta) {
		t.Fatalf("unexpected second chunk metadata %v", chunks[1].Metadata)
	}
}

func TestHTMLSplitter_KeepHeadersAggregates(t *testing.T) {
	s, err := NewHTMLSplitter(WithStripHeaders(false))
	if err != nil {
		t.Fatalf("NewHTMLSplitter: %v", err)
	}

	chunks, err := s.SplitText("<body><h1>Intro</h1><p>First paragraph.</p></body>")
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
	if chunks[0].Text != "Intro  \nFirst paragraph." {
		t.Fatalf("expected heading merged with content, got %q", chunks[0].Text)
	}
}

func TestHTMLSplitter_SkipsScriptAndStyle(t *testing.T) {
	s, err := NewHTMLSplitter()
	if err != nil {
		t.Fatalf("NewHTMLSplitter: %v", err)
	}

	doc := "<body><h1>T</h1><p>keep</p>" +
		"<script>var x = 1;</script><style>.a{color:red}</style></body>"
	chunks, err := s.SplitText(doc)
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "keep" {
		t.Fatalf("expected script and style dropped, got %v", chunks)
	}
}

func TestHTMLSplitter_SameLevelHeadingReplaces(t *testing.T) {
	s, err := NewHTMLSplitter()
	if err != nil {
		t.Fatalf("NewHTMLSplitter: %v", err)
	}

	doc := "<body><h2>A</h2><p>one</p><h2>B</h2><p>two</p></body>"
	chunks, err := s.SplitText(doc)
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if !reflect.DeepEqual(chunks[1].Metadata, map[string]any{"Header 2": "B"}) {
		t.Fatalf("expected same-level heading replaced, got %v", chunks[1].Metadata)
	}
}

func TestHTMLSplitter_ContentBeforeFirstHeading(t *testing.T) {
	s, err := NewHTMLSplitter()
	if err != nil {
		t.Fatalf("NewHTMLSplitter: %v", err)
	}

	chunks, err := s.SplitText("<body><p>preamble</p><h1>T</h1><p>body</p></body>")
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0].Text != "preamble" || len(chunks[0].Metadata) != 0 {
		t.Fatalf("expected untagged preamble, got %v", chunks[0])
	}
}

func TestHTMLSplitter_NormalizesInlineText(t *testing.T) {
	s, err := NewHTMLSplitter()
	if err != nil {
		t.Fatalf("NewHTMLSplitter: %v", err)
	}

	chunks, err := s.SplitText("<body><p>Hello\n  <b>bold</b> world</p></body>")
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "Hello bold world" {
		t.Fatalf("expected normalized inline text, got %v", chunks)
	}
}

func TestHTMLSplitter_ReturnEachElement(t *testing.T) {
	s, err := NewHTMLSplitter(WithReturnEach(true))
	if err != nil {
		t.Fatalf("NewHTMLSplitter: %v", err)
	}

	chunks, err := s.SplitText("<body><h1>T</h1><p>one</p><p>two</p></body>")
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected one chunk per element, got %d: %v", len(chunks), chunks)
	}
}

func TestHTMLSplitter_RejectsNonHeadingTags(t *testing.T) {
	_, err := NewHTMLSplitter(WithHeaders(HeaderSpec{Prefix: "div", Label: "X"}))
	if err == nil {
		t.Fatalf("expected error for non-heading tag")
	}
}
