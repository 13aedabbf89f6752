package textsplit

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when neither a tokenizer, a
// model name nor an encoding name is configured.
const DefaultEncoding = "cl100k_base"

// Tokenizer converts text to and from token ids. Implementations must be
// safe for concurrent use.
type Tokenizer interface {
	Encode(text string) []int
	Decode(ids []int) string
}

// TokenLen builds a LenFunc that measures text by token count, for packing
// character fragments against a token budget.
func TokenLen(t Tokenizer) LenFunc {
	return func(text string) int {
		return len(t.Encode(text))
	}
}

const approxCharsPerToken = 4

// EstimateTokens approximates the token count of text without a tokenizer,
// assuming roughly four bytes per token.
func EstimateTokens(text string) int {
	return max(1, len(text)/approxCharsPerToken)
}

// tiktokenTokenizer adapts a tiktoken encoding to the Tokenizer interface.
type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

func (t tiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t tiktokenTokenizer) Decode(ids []int) string {
	return t.enc.Decode(ids)
}

// Building a tiktoken encoding loads BPE tables, so resolved encoders are
// shared process-wide through a small LRU.
const encoderCacheSize = 8

var (
	encoderMu    sync.Mutex
	encoderCache *lru.Cache[string, *tiktoken.Tiktoken]
)

func lookupEncoder(model, encoding string) (*tiktoken.Tiktoken, error) {
	key := "encoding/" + encoding
	if model != "" {
		key = "model/" + model
	}

	encoderMu.Lock()
	defer encoderMu.Unlock()
	if encoderCache == nil {
		cache, err := lru.New[string, *tiktoken.Tiktoken](encoderCacheSize)
		if err != nil {
			return nil, fmt.Errorf("textsplit: init encoder cache: %w", err)
		}
		encoderCache = cache
	}
	if enc, ok := encoderCache.Get(key); ok {
		return enc, nil
	}

	var enc *tiktoken.Tiktoken
	var err error
	if model != "" {
		enc, err = tiktoken.EncodingForModel(model)
	} else {
		enc, err = tiktoken.GetEncoding(encoding)
	}
	if err != nil {
		return nil, err
	}
	encoderCache.Add(key, enc)
	return enc, nil
}

// NewTiktokenTokenizer returns a Tokenizer backed by the named tiktoken
// encoding, for example DefaultEncoding.
func NewTiktokenTokenizer(encoding string) (Tokenizer, error) {
	enc, err := lookupEncoder("", encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %q: %v", ErrNoTokenizer, encoding, err)
	}
	return tiktokenTokenizer{enc: enc}, nil
}

// NewTiktokenTokenizerForModel returns a Tokenizer for the encoding of the
// named model, falling back to DefaultEncoding when the model is unknown.
func NewTiktokenTokenizerForModel(model string) (Tokenizer, error) {
	enc, err := lookupEncoder(model, "")
	if err != nil {
		enc, err = lookupEncoder("", DefaultEncoding)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: model %q: %v", ErrNoTokenizer, model, err)
	}
	return tiktokenTokenizer{enc: enc}, nil
}

// resolveTokenizer yields the injected tokenizer, or lazily builds a
// tiktoken-backed one from the configured model or encoding name.
func resolveTokenizer(o *Options) (Tokenizer, error) {
	if o.Tokenizer != nil {
		return o.Tokenizer, nil
	}
	if o.ModelName != "" {
		return NewTiktokenTokenizerForModel(o.ModelName)
	}
	encoding := o.EncodingName
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return NewTiktokenTokenizer(encoding)
}
