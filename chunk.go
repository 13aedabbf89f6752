package textsplit

import (
	"sort"
	"unicode/utf8"
)

// Chunk is one ordered segment of a split document.
type Chunk struct {
	// Text is the chunk content.
	Text string `json:"text"`

	// Metadata carries descriptive attributes of the chunk. Structural
	// splitters record header lineage here; CreateChunks seeds it from the
	// per-document metadata. The map never aliases caller-owned maps, so
	// chunks may be mutated independently.
	Metadata map[string]any `json:"metadata,omitempty"`

	// StartIndex is the byte offset of Text within the source document, or
	// -1 when start-index tracking is disabled or the offset could not be
	// located.
	StartIndex int `json:"start_index"`
}

// LenFunc measures the length of a piece of text. The default counts runes;
// TokenLen builds a token-counting variant from a Tokenizer.
type LenFunc func(string) int

func defaultLenFunc(s string) int {
	return utf8.RuneCountInString(s)
}

// cloneMetadata returns a fresh shallow copy of src. A nil source yields an
// empty, non-nil map so callers can attach keys without checking.
func cloneMetadata(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// ChunkStats summarizes the size distribution of a chunk set. Lengths are
// measured with the supplied LenFunc.
type ChunkStats struct {
	Count     int
	TotalLen  int
	MaxLen    int
	MedianLen int
}

// Stats computes size statistics for chunks. A nil LenFunc falls back to
// rune counting.
func Stats(chunks []Chunk, lenFunc LenFunc) ChunkStats {
	if lenFunc == nil {
		lenFunc = defaultLenFunc
	}
	stats := ChunkStats{Count: len(chunks)}
	if len(chunks) == 0 {
		return stats
	}
	lengths := make([]int, 0, len(chunks))
	for _, c := range chunks {
		n := lenFunc(c.Text)
		lengths = append(lengths, n)
		stats.TotalLen += n
	}
	sort.Ints(lengths)
	stats.MaxLen = lengths[len(lengths)-1]
	stats.MedianLen = lengths[len(lengths)/2]
	return stats
}
