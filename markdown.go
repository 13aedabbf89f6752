package textsplit

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// HeaderSpec binds a header marker to a metadata label. For Markdown the
// prefix is a run of '#'; for HTML it is a heading tag name like "h2". An
// empty label splits on the marker without recording lineage.
type HeaderSpec struct {
	Prefix string
	Label  string
}

// DefaultMarkdownHeaders splits on the first three ATX heading levels.
func DefaultMarkdownHeaders() []HeaderSpec {
	return []HeaderSpec{
		{Prefix: "#", Label: "Header 1"},
		{Prefix: "##", Label: "Header 2"},
		{Prefix: "###", Label: "Header 3"},
	}
}

// headerEntry is one level of the active heading lineage.
type headerEntry struct {
	level int
	label string
	text  string
}

// lineageMetadata flattens the heading stack into label/text pairs.
func lineageMetadata(stack []headerEntry) map[string]string {
	metadata := make(map[string]string, len(stack))
	for _, h := range stack {
		metadata[h.label] = h.text
	}
	return metadata
}

// lineRecord is one piece of content tagged with its header lineage.
type lineRecord struct {
	content  string
	metadata map[string]string
}

// aggregateRecords merges adjacent records whose lineage is identical. The
// join keeps two trailing spaces so the merged text preserves Markdown line
// breaks.
func aggregateRecords(records []lineRecord) []lineRecord {
	var merged []lineRecord
	for _, rec := range records {
		if len(merged) > 0 && maps.Equal(merged[len(merged)-1].metadata, rec.metadata) {
			merged[len(merged)-1].content += "  \n" + rec.content
			continue
		}
		merged = append(merged, rec)
	}
	return merged
}

// recordChunks converts lineage records into chunks with fresh metadata maps.
func recordChunks(records []lineRecord) []Chunk {
	chunks := make([]Chunk, 0, len(records))
	for _, rec := range records {
		metadata := make(map[string]any, len(rec.metadata))
		for k, v := range rec.metadata {
			metadata[k] = v
		}
		chunks = append(chunks, Chunk{Text: rec.content, Metadata: metadata, StartIndex: -1})
	}
	return chunks
}

// MarkdownSplitter cuts Markdown into chunks at configured heading prefixes
// and tags every chunk with the text of the headings enclosing it. Fenced
// code blocks are treated as opaque content. Heading lines are dropped from
// chunk content unless WithStripHeaders(false) keeps them.
type MarkdownSplitter struct {
	headers      []HeaderSpec // longest prefix first
	returnEach   bool
	stripHeaders bool
}

// NewMarkdownSplitter builds a MarkdownSplitter from opts, splitting on
// DefaultMarkdownHeaders when none are configured.
func NewMarkdownSplitter(opts ...Option) (*MarkdownSplitter, error) {
	o := NewOptions(opts...)
	headers := o.Headers
	if len(headers) == 0 {
		headers = DefaultMarkdownHeaders()
	}
	sorted := make([]HeaderSpec, len(headers))
	copy(sorted, headers)
	for _, h := range sorted {
		if h.Prefix == "" {
			return nil, fmt.Errorf("textsplit: markdown header prefix must not be empty")
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &MarkdownSplitter{
		headers:      sorted,
		returnEach:   o.ReturnEach,
		stripHeaders: o.StripHeaders,
	}, nil
}

// SplitText splits markdown into header-lineage chunks in document order.
// Adjacent content under the same lineage is aggregated into one chunk
// unless WithReturnEach(true) keeps one chunk per line record.
func (s *MarkdownSplitter) SplitText(text string) ([]Chunk, error) {
	var records []lineRecord
	var buffer []string
	var stack []headerEntry
	activeMetadata := map[string]string{}

	inCodeBlock := false
	openingFence := ""

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)

		// Fence state machine. Opening and closing fence lines stay in the
		// content buffer.
		if !inCodeBlock {
			if strings.HasPrefix(stripped, "```") && strings.Count(stripped, "```") == 1 {
				inCodeBlock = true
				openingFence = "```"
			} else if strings.HasPrefix(stripped, "~~~") {
				inCodeBlock = true
				openingFence = "~~~"
			}
		} else if strings.HasPrefix(stripped, openingFence) {
			inCodeBlock = false
			openingFence = ""
		}
		if inCodeBlock {
			buffer = append(buffer, stripped)
			continue
		}

		matched := false
		for _, h := range s.headers {
			if !strings.HasPrefix(stripped, h.Prefix) {
				continue
			}
			if len(stripped) > len(h.Prefix) && stripped[len(h.Prefix)] != ' ' {
				continue
			}
			matched = true
			// Content gathered so far belongs to the previous lineage.
			if len(buffer) > 0 {
				records = append(records, lineRecord{
					content:  strings.Join(buffer, "\n"),
					metadata: maps.Clone(activeMetadata),
				})
				buffer = nil
			}
			if h.Label != "" {
				level := strings.Count(h.Prefix, "#")
				for len(stack) > 0 && stack[len(stack)-1].level >= level {
					stack = stack[:len(stack)-1]
				}
				stack = append(stack, headerEntry{
					level: level,
					label: h.Label,
					text:  strings.TrimSpace(stripped[len(h.Prefix):]),
				})
				activeMetadata = lineageMetadata(stack)
			}
			if !s.stripHeaders {
				buffer = append(buffer, stripped)
			}
			break
		}
		if matched {
			continue
		}

		if stripped != "" {
			buffer = append(buffer, stripped)
		} else if len(buffer) > 0 {
			// A blank line closes the current record.
			records = append(records, lineRecord{
				content:  strings.Join(buffer, "\n"),
				metadata: maps.Clone(activeMetadata),
			})
			buffer = nil
		}
	}
	if len(buffer) > 0 {
		records = append(records, lineRecord{
			content:  strings.Join(buffer, "\n"),
			metadata: maps.Clone(activeMetadata),
		})
	}

	if s.returnEach {
		return recordChunks(records), nil
	}
	return recordChunks(aggregateRecords(records)), nil
}
