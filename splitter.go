package textsplit

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TextSplitter splits plain text into ordered string chunks. The character,
// recursive, token and structured splitters implement it.
type TextSplitter interface {
	SplitText(text string) ([]string, error)
}

// ChunkSplitter produces metadata-carrying chunks directly. The markdown
// and html splitters implement it.
type ChunkSplitter interface {
	SplitText(text string) ([]Chunk, error)
}

// Strategy names a splitting algorithm for the Split entry point.
type Strategy string

// Strategies accepted by Split.
const (
	StrategyCharacter  Strategy = "character"
	StrategyRecursive  Strategy = "recursive"
	StrategyToken      Strategy = "token"
	StrategyMarkdown   Strategy = "markdown"
	StrategyHTML       Strategy = "html"
	StrategyStructured Strategy = "structured"
)

// Strategies lists every strategy Split accepts.
func Strategies() []Strategy {
	return []Strategy{
		StrategyCharacter,
		StrategyRecursive,
		StrategyToken,
		StrategyMarkdown,
		StrategyHTML,
		StrategyStructured,
	}
}

// Split splits text with the named strategy. Markdown and html chunks carry
// header lineage in their metadata; the structured strategy expects text to
// be a JSON object document.
func Split(strategy Strategy, text string, opts ...Option) ([]Chunk, error) {
	switch strategy {
	case StrategyCharacter:
		s, err := NewCharacterSplitter(opts...)
		if err != nil {
			return nil, err
		}
		return CreateChunks(s, []string{text}, nil)
	case StrategyRecursive:
		s, err := NewRecursiveSplitter(opts...)
		if err != nil {
			return nil, err
		}
		return CreateChunks(s, []string{text}, nil)
	case StrategyToken:
		s, err := NewTokenSplitter(opts...)
		if err != nil {
			return nil, err
		}
		return CreateChunks(s, []string{text}, nil)
	case StrategyMarkdown:
		s, err := NewMarkdownSplitter(opts...)
		if err != nil {
			return nil, err
		}
		return s.SplitText(text)
	case StrategyHTML:
		s, err := NewHTMLSplitter(opts...)
		if err != nil {
			return nil, err
		}
		return s.SplitText(text)
	case StrategyStructured:
		s, err := NewStructuredSplitter(opts...)
		if err != nil {
			return nil, err
		}
		return CreateChunks(s, []string{text}, nil)
	default:
		return nil, fmt.Errorf("%w %q, valid strategies: %s",
			ErrUnknownStrategy, strategy, strings.Join(strategyNames(), ", "))
	}
}

func strategyNames() []string {
	strategies := Strategies()
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = string(s)
	}
	return names
}

// optioned is implemented by splitters that expose their Options, letting
// CreateChunks honor AddStartIndex and ChunkOverlap.
type optioned interface {
	splitOptions() *Options
}

// CreateChunks runs splitter over texts and wraps every piece as a Chunk
// carrying a copy of the matching metadata entry. metadatas may be nil or
// must match texts in length. With AddStartIndex enabled each chunk records
// the byte offset of its text within the source, searching forward from the
// previous chunk's end minus the byte span of its overlap tail.
func CreateChunks(splitter TextSplitter, texts []string, metadatas []map[string]any) ([]Chunk, error) {
	if len(metadatas) == 0 {
		metadatas = make([]map[string]any, len(texts))
	}
	if len(texts) != len(metadatas) {
		return nil, fmt.Errorf("textsplit: got %d texts and %d metadatas", len(texts), len(metadatas))
	}
	var o *Options
	if s, ok := splitter.(optioned); ok {
		o = s.splitOptions()
	}

	var chunks []Chunk
	for i, text := range texts {
		pieces, err := splitter.SplitText(text)
		if err != nil {
			return nil, err
		}
		prevIndex := 0
		prevLen := 0
		prevTail := 0
		for _, piece := range pieces {
			chunk := Chunk{
				Text:       piece,
				Metadata:   cloneMetadata(metadatas[i]),
				StartIndex: -1,
			}
			if o != nil && o.AddStartIndex {
				offset := max(0, prevIndex+prevLen-prevTail)
				index := strings.Index(text[offset:], piece)
				if index >= 0 {
					index += offset
				}
				chunk.StartIndex = index
				prevIndex = index
				prevLen = len(piece)
				prevTail = overlapTail(piece, o.ChunkOverlap)
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// overlapTail returns the byte length of the trailing n runes of piece,
// capped at the whole piece. Chunk offsets count bytes while ChunkOverlap
// counts length units, and the packer retains at most ChunkOverlap units of
// window tail, so the next chunk never starts earlier than this span before
// the previous chunk's end.
func overlapTail(piece string, n int) int {
	tail := 0
	for ; n > 0 && tail < len(piece); n-- {
		_, size := utf8.DecodeLastRuneInString(piece[:len(piece)-tail])
		tail += size
	}
	return tail
}

// SplitChunks re-splits existing chunks, carrying each source chunk's
// metadata to the pieces produced from it.
func SplitChunks(splitter TextSplitter, chunks []Chunk) ([]Chunk, error) {
	texts := make([]string, 0, len(chunks))
	metadatas := make([]map[string]any, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
		metadatas = append(metadatas, c.Metadata)
	}
	return CreateChunks(splitter, texts, metadatas)
}
