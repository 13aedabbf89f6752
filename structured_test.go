package textsplit

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestStructuredSplitter(t *testing.T) {
	s, err := NewStructuredSplitter(WithMaxChunkSize(30), WithMinChunkSize(10))
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	data := map[string]any{
		"a": "0123456789",
		"b": "0123456789",
		"c": "0123456789",
	}
	chunks, err := s.SplitMap(data)
	if err != nil {
		t.Fatalf("SplitMap: %v", err)
	}
	want := []map[string]any{
		{"a": "0123456789"},
		{"b": "0123456789"},
		{"c": "0123456789"},
	}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("expected %v, got %v", want, chunks)
	}
	for i, chunk := range chunks {
		size, err := jsonSize(chunk)
		if err != nil {
			t.Fatalf("jsonSize: %v", err)
		}
		if size > 30 {
			t.Fatalf("chunk %d exceeds size bound: %d", i, size)
		}
	}
}

func TestStructuredSplitter_NestedKeepsFullPaths(t *testing.T) {
	s, err := NewStructuredSplitter(WithMaxChunkSize(30), WithMinChunkSize(10))
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	data := map[string]any{
		"outer": map[string]any{
			"a": "0123456789",
			"b": "0123456789",
		},
	}
	chunks, err := s.SplitMap(data)
	if err != nil {
		t.Fatalf("SplitMap: %v", err)
	}
	want := []map[string]any{
		{"outer": map[string]any{"a": "0123456789"}},
		{"outer": map[string]any{"b": "0123456789"}},
	}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("expected %v, got %v", want, chunks)
	}
}

func TestStructuredSplitter_OversizeLeafKeptWhole(t *testing.T) {
	s, err := NewStructuredSplitter(WithMaxChunkSize(40))
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	value := strings.Repeat("x", 50)
	chunks, err := s.SplitMap(map[string]any{"k": value})
	if err != nil {
		t.Fatalf("SplitMap: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0]["k"] != value {
		t.Fatalf("expected oversize leaf kept whole, got %v", chunks[0])
	}
}

func TestStructuredSplitter_EveryLeafLandsInOneChunk(t *testing.T) {
	s, err := NewStructuredSplitter(WithMaxChunkSize(30), WithMinChunkSize(10))
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	data := map[string]any{
		"name":    "svc",
		"payload": strings.Repeat("p", 40),
		"settings": map[string]any{
			"retries": 3,
			"timeout": "30s",
		},
	}
	chunks, err := s.SplitMap(data)
	if err != nil {
		t.Fatalf("SplitMap: %v", err)
	}

	wantLeaves := map[string]any{}
	collectLeaves("", data, wantLeaves)
	gotLeaves := map[string]any{}
	for _, chunk := range chunks {
		collectLeaves("", chunk, gotLeaves)
	}
	if !reflect.DeepEqual(gotLeaves, wantLeaves) {
		t.Fatalf("expected leaves %v, got %v", wantLeaves, gotLeaves)
	}
}

func TestStructuredSplitter_ConvertLists(t *testing.T) {
	s, err := NewStructuredSplitter(WithConvertLists(true))
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	chunks, err := s.SplitMap(map[string]any{"items": []any{"a", "b"}})
	if err != nil {
		t.Fatalf("SplitMap: %v", err)
	}
	want := []map[string]any{
		{"items": map[string]any{"0": "a", "1": "b"}},
	}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("expected indexed list mapping, got %v", chunks)
	}

	plain, err := NewStructuredSplitter()
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}
	chunks, err = plain.SplitMap(map[string]any{"items": []any{"a", "b"}})
	if err != nil {
		t.Fatalf("SplitMap: %v", err)
	}
	if !reflect.DeepEqual(chunks[0]["items"], []any{"a", "b"}) {
		t.Fatalf("expected list kept opaque, got %v", chunks[0])
	}
}

func TestStructuredSplitter_SplitJSON(t *testing.T) {
	s, err := NewStructuredSplitter()
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	chunks, err := s.SplitJSON([]byte(`{"a":1,"b":"x"}`))
	if err != nil {
		t.Fatalf("SplitJSON: %v", err)
	}
	want := []map[string]any{{"a": float64(1), "b": "x"}}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("expected %v, got %v", want, chunks)
	}
}

func TestStructuredSplitter_RejectsMalformedInput(t *testing.T) {
	s, err := NewStructuredSplitter()
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	if _, err := s.SplitJSON([]byte("{")); !errors.Is(err, ErrNotStructured) {
		t.Fatalf("expected ErrNotStructured for invalid json, got %v", err)
	}
	if _, err := s.SplitJSON([]byte("[1,2]")); !errors.Is(err, ErrNotStructured) {
		t.Fatalf("expected ErrNotStructured for non-object json, got %v", err)
	}
	if _, err := s.SplitYAML([]byte("- 1\n- 2\n")); !errors.Is(err, ErrNotStructured) {
		t.Fatalf("expected ErrNotStructured for non-mapping yaml, got %v", err)
	}
}

func TestStructuredSplitter_SplitYAML(t *testing.T) {
	s, err := NewStructuredSplitter()
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	chunks, err := s.SplitYAML([]byte("a: 1\nb: hello\n"))
	if err != nil {
		t.Fatalf("SplitYAML: %v", err)
	}
	want := []map[string]any{{"a": float64(1), "b": "hello"}}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("expected %v, got %v", want, chunks)
	}
}

func TestStructuredSplitter_SplitText(t *testing.T) {
	s, err := NewStructuredSplitter()
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	texts, err := s.SplitText(`{"a":"x"}`)
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(texts) != 1 || texts[0] != `{"a":"x"}` {
		t.Fatalf("expected compact json round trip, got %v", texts)
	}
}

func TestStructuredSplitter_CreateChunksCopiesMetadata(t *testing.T) {
	s, err := NewStructuredSplitter(WithMaxChunkSize(30), WithMinChunkSize(10))
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	metadata := map[string]any{"source": "test"}
	chunks, err := s.CreateChunks(map[string]any{
		"a": "0123456789",
		"b": "0123456789",
	}, metadata)
	if err != nil {
		t.Fatalf("CreateChunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	chunks[0].Metadata["source"] = "changed"
	if chunks[1].Metadata["source"] != "test" || metadata["source"] != "test" {
		t.Fatalf("expected per-chunk metadata copies")
	}
	if chunks[0].StartIndex != -1 {
		t.Fatalf("expected start index -1, got %d", chunks[0].StartIndex)
	}
}

func TestStructuredSplitter_EmptyInput(t *testing.T) {
	s, err := NewStructuredSplitter()
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}

	chunks, err := s.SplitMap(map[string]any{})
	if err != nil {
		t.Fatalf("SplitMap: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %v", chunks)
	}
}

func TestStructuredSplitter_ConfigErrors(t *testing.T) {
	if _, err := NewStructuredSplitter(WithMaxChunkSize(-5)); !errors.Is(err, ErrInvalidChunkSize) {
		t.Fatalf("expected ErrInvalidChunkSize, got %v", err)
	}
	if _, err := NewStructuredSplitter(WithMinChunkSize(-1)); !errors.Is(err, ErrInvalidChunkSize) {
		t.Fatalf("expected ErrInvalidChunkSize, got %v", err)
	}
}

func TestStructuredSplitter_MinChunkSizeDefault(t *testing.T) {
	s, err := NewStructuredSplitter()
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}
	if s.minChunkSize != DefaultMaxChunkSize-200 {
		t.Fatalf("expected default min %d, got %d", DefaultMaxChunkSize-200, s.minChunkSize)
	}

	s, err = NewStructuredSplitter(WithMaxChunkSize(100))
	if err != nil {
		t.Fatalf("NewStructuredSplitter: %v", err)
	}
	if s.minChunkSize != 50 {
		t.Fatalf("expected floored min 50, got %d", s.minChunkSize)
	}
}

// collectLeaves flattens nested mappings into dotted path keys.
func collectLeaves(prefix string, value any, out map[string]any) {
	m, ok := value.(map[string]any)
	if !ok {
		out[prefix] = value
		return
	}
	for key, val := range m {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		collectLeaves(path, val, out)
	}
}
