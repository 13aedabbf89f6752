package textsplit

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Defaults applied by NewOptions. Sizes are measured with the configured
// LenFunc, runes unless overridden.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200

	// DefaultSeparator is the literal separator of the character splitter.
	DefaultSeparator = "\n\n"
)

// DefaultSeparators is the generic prose ladder of the recursive splitter:
// paragraphs, then lines, then words, then characters.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", " ", ""}
}

// Options carries the shared configuration of every splitter. Each splitter
// reads the fields relevant to its strategy and ignores the rest.
type Options struct {
	// ChunkSize bounds the packed chunk length, measured by LenFunc.
	ChunkSize int

	// ChunkOverlap is the length carried over between consecutive chunks.
	// The token splitter interprets it in tokens.
	ChunkOverlap int

	// LenFunc measures fragment and chunk lengths. Defaults to rune count.
	LenFunc LenFunc

	// Separator is the character splitter's separator.
	Separator string

	// Separators is the recursive splitter's ordered ladder.
	Separators []string

	// SeparatorRegex treats Separator and Separators as regular expressions
	// instead of literals.
	SeparatorRegex bool

	// KeepSeparator re-attaches each separator occurrence to the end of the
	// fragment that precedes it instead of discarding it.
	KeepSeparator bool

	// Language selects a built-in separator ladder for the recursive
	// splitter. Leave empty to use Separators.
	Language Language

	// StripWhitespace trims each packed chunk. Enabled by default.
	StripWhitespace bool

	// AddStartIndex makes CreateChunks record each chunk's byte offset
	// within its source document.
	AddStartIndex bool

	// TokensPerChunk is the token splitter's window size. Defaults to
	// ChunkSize when zero.
	TokensPerChunk int

	// Tokenizer encodes and decodes token ids for the token splitter and
	// TokenLen. When nil the splitter resolves a tiktoken encoding lazily.
	Tokenizer Tokenizer

	// ModelName selects the tiktoken encoding by model. Takes precedence
	// over EncodingName when both are set.
	ModelName string

	// EncodingName selects the tiktoken encoding directly. Defaults to
	// DefaultEncoding.
	EncodingName string

	// Headers configures the structural splitters' header prefixes or tags.
	Headers []HeaderSpec

	// ReturnEach disables structural aggregation: Markdown returns one
	// chunk per line record, HTML one chunk per element record.
	ReturnEach bool

	// StripHeaders drops matched header text from structural chunk content,
	// leaving it only in metadata. Enabled by default.
	StripHeaders bool

	// MaxChunkSize bounds the serialized size of structured sub-objects.
	MaxChunkSize int

	// MinChunkSize is the structured splitter's low-water mark. Defaults to
	// MaxChunkSize-200, floored at 50.
	MinChunkSize int

	// ConvertLists rewrites arrays into index-keyed mappings before
	// structured splitting.
	ConvertLists bool

	// Logger receives split diagnostics. Uninitialized loggers fall back to
	// the module default; pass logr.Discard to silence.
	Logger logr.Logger
}

// Option mutates Options during construction.
type Option func(*Options)

// NewOptions returns Options with package defaults and opts applied.
func NewOptions(opts ...Option) Options {
	o := Options{
		ChunkSize:       DefaultChunkSize,
		ChunkOverlap:    DefaultChunkOverlap,
		LenFunc:         defaultLenFunc,
		Separator:       DefaultSeparator,
		StripWhitespace: true,
		StripHeaders:    true,
		MaxChunkSize:    DefaultMaxChunkSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// validate rejects size configurations the packer cannot honor.
func (o *Options) validate() error {
	if o.LenFunc == nil {
		o.LenFunc = defaultLenFunc
	}
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, o.ChunkSize)
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		return fmt.Errorf("%w: overlap %d, chunk size %d", ErrInvalidChunkOverlap, o.ChunkOverlap, o.ChunkSize)
	}
	return nil
}

// WithChunkSize sets the maximum chunk length.
func WithChunkSize(size int) Option {
	return func(o *Options) { o.ChunkSize = size }
}

// WithChunkOverlap sets the length retained between consecutive chunks.
func WithChunkOverlap(overlap int) Option {
	return func(o *Options) { o.ChunkOverlap = overlap }
}

// WithLenFunc sets the length function used for size accounting.
func WithLenFunc(lenFunc LenFunc) Option {
	return func(o *Options) { o.LenFunc = lenFunc }
}

// WithSeparator sets the character splitter's separator.
func WithSeparator(separator string) Option {
	return func(o *Options) { o.Separator = separator }
}

// WithSeparators sets the recursive splitter's separator ladder.
func WithSeparators(separators ...string) Option {
	return func(o *Options) { o.Separators = separators }
}

// WithSeparatorRegex interprets configured separators as regular expressions.
func WithSeparatorRegex(on bool) Option {
	return func(o *Options) { o.SeparatorRegex = on }
}

// WithKeepSeparator keeps each separator attached to the preceding fragment.
func WithKeepSeparator(on bool) Option {
	return func(o *Options) { o.KeepSeparator = on }
}

// WithLanguage selects a built-in separator ladder by language.
func WithLanguage(lang Language) Option {
	return func(o *Options) { o.Language = lang }
}

// WithStripWhitespace controls trimming of packed chunks.
func WithStripWhitespace(on bool) Option {
	return func(o *Options) { o.StripWhitespace = on }
}

// WithAddStartIndex makes CreateChunks record chunk offsets.
func WithAddStartIndex(on bool) Option {
	return func(o *Options) { o.AddStartIndex = on }
}

// WithTokensPerChunk sets the token splitter's window size.
func WithTokensPerChunk(tokens int) Option {
	return func(o *Options) { o.TokensPerChunk = tokens }
}

// WithTokenizer injects the tokenizer used for token windows and TokenLen.
func WithTokenizer(t Tokenizer) Option {
	return func(o *Options) { o.Tokenizer = t }
}

// WithModel selects the tiktoken encoding for the given model name.
func WithModel(model string) Option {
	return func(o *Options) { o.ModelName = model }
}

// WithEncoding selects a tiktoken encoding by name.
func WithEncoding(encoding string) Option {
	return func(o *Options) { o.EncodingName = encoding }
}

// WithHeaders configures the structural splitters' headers.
func WithHeaders(headers ...HeaderSpec) Option {
	return func(o *Options) { o.Headers = headers }
}

// WithReturnEach returns one chunk per structural record, skipping
// same-lineage aggregation.
func WithReturnEach(on bool) Option {
	return func(o *Options) { o.ReturnEach = on }
}

// WithStripHeaders removes matched header text from chunk content.
func WithStripHeaders(on bool) Option {
	return func(o *Options) { o.StripHeaders = on }
}

// WithMaxChunkSize bounds the serialized size of structured sub-objects.
func WithMaxChunkSize(size int) Option {
	return func(o *Options) { o.MaxChunkSize = size }
}

// WithMinChunkSize sets the structured splitter's low-water mark.
func WithMinChunkSize(size int) Option {
	return func(o *Options) { o.MinChunkSize = size }
}

// WithConvertLists rewrites arrays into index-keyed mappings before
// structured splitting.
func WithConvertLists(on bool) Option {
	return func(o *Options) { o.ConvertLists = on }
}

// WithLogger routes split diagnostics to the supplied logger.
func WithLogger(logger logr.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
