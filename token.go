package textsplit

import (
	"fmt"
	"sync"
)

// TokenSplitter encodes text to token ids and cuts fixed-size, overlapping
// windows over them, decoding each window back to text. Chunk boundaries
// land on token boundaries, which may fall inside words.
type TokenSplitter struct {
	opts           Options
	tokensPerChunk int

	resolveOnce sync.Once
	tok         Tokenizer
	tokErr      error
}

// NewTokenSplitter builds a TokenSplitter from opts. The window defaults to
// ChunkSize tokens; ChunkOverlap is interpreted in tokens. The tokenizer is
// resolved lazily, so a missing encoding surfaces at the first SplitText.
func NewTokenSplitter(opts ...Option) (*TokenSplitter, error) {
	o := NewOptions(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}
	tokensPerChunk := o.TokensPerChunk
	if tokensPerChunk == 0 {
		tokensPerChunk = o.ChunkSize
	}
	if tokensPerChunk <= 0 {
		return nil, fmt.Errorf("%w: tokens per chunk %d", ErrInvalidChunkSize, tokensPerChunk)
	}
	if o.ChunkOverlap >= tokensPerChunk {
		return nil, fmt.Errorf("%w: overlap %d, tokens per chunk %d",
			ErrInvalidChunkOverlap, o.ChunkOverlap, tokensPerChunk)
	}
	return &TokenSplitter{opts: o, tokensPerChunk: tokensPerChunk}, nil
}

// SplitText returns the decoded token windows of text in order. It fails
// with ErrNoTokenizer when no tokenizer is injected and the configured
// encoding cannot be resolved.
func (s *TokenSplitter) SplitText(text string) ([]string, error) {
	tok, err := s.tokenizer()
	if err != nil {
		return nil, err
	}
	ids := tok.Encode(text)

	var chunks []string
	start := 0
	for start < len(ids) {
		end := min(start+s.tokensPerChunk, len(ids))
		chunks = append(chunks, tok.Decode(ids[start:end]))
		if end == len(ids) {
			break
		}
		start += s.tokensPerChunk - s.opts.ChunkOverlap
	}
	return chunks, nil
}

func (s *TokenSplitter) splitOptions() *Options {
	return &s.opts
}

func (s *TokenSplitter) tokenizer() (Tokenizer, error) {
	s.resolveOnce.Do(func() {
		s.tok, s.tokErr = resolveTokenizer(&s.opts)
	})
	return s.tok, s.tokErr
}
