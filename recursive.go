package textsplit

import (
	"regexp"

	"github.com/roivaz/textsplit/internal/logging"
)

// separatorPattern pairs a ladder separator with its compiled pattern.
type separatorPattern struct {
	raw string
	re  *regexp.Regexp // nil for the empty separator
}

// RecursiveSplitter walks an ordered separator ladder, splitting on the first
// separator present in the text and recursing with the remaining ladder into
// fragments that still exceed the chunk size. The default ladder works for
// prose; WithLanguage selects a source-code ladder.
type RecursiveSplitter struct {
	opts   Options
	ladder []separatorPattern
	packer packer
	log    logging.Logger
}

// NewRecursiveSplitter builds a RecursiveSplitter from opts. It fails when
// the size configuration is invalid, the language preset is unknown, or a
// separator does not compile.
func NewRecursiveSplitter(opts ...Option) (*RecursiveSplitter, error) {
	o := NewOptions(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}
	separators := o.Separators
	if o.Language != "" {
		langSeparators, err := SeparatorsForLanguage(o.Language)
		if err != nil {
			return nil, err
		}
		separators = langSeparators
	}
	if len(separators) == 0 {
		separators = DefaultSeparators()
	}
	ladder := make([]separatorPattern, 0, len(separators))
	for _, sep := range separators {
		re, err := compileSeparator(sep, o.SeparatorRegex)
		if err != nil {
			return nil, err
		}
		ladder = append(ladder, separatorPattern{raw: sep, re: re})
	}
	return &RecursiveSplitter{
		opts:   o,
		ladder: ladder,
		packer: newPacker(&o),
		log:    logging.New(o.Logger).WithName("textsplit"),
	}, nil
}

// SplitText splits text recursively and returns the packed chunks in
// document order.
func (s *RecursiveSplitter) SplitText(text string) ([]string, error) {
	return s.split(text, s.ladder), nil
}

func (s *RecursiveSplitter) splitOptions() *Options {
	return &s.opts
}

func (s *RecursiveSplitter) split(text string, ladder []separatorPattern) []string {
	// Pick the first separator that occurs in the text. The empty separator
	// always applies and ends the ladder.
	chosen := ladder[len(ladder)-1]
	var rest []separatorPattern
	for i, sep := range ladder {
		if sep.raw == "" {
			chosen = sep
			rest = nil
			break
		}
		if sep.re.MatchString(text) {
			chosen = sep
			rest = ladder[i+1:]
			break
		}
	}

	fragments := splitOnPattern(text, chosen.re, s.opts.KeepSeparator)
	joinSep := chosen.raw
	if s.opts.KeepSeparator {
		joinSep = ""
	}

	var chunks []string
	var pending []string
	for _, fragment := range fragments {
		if s.opts.LenFunc(fragment) < s.opts.ChunkSize {
			pending = append(pending, fragment)
			continue
		}
		if len(pending) > 0 {
			chunks = append(chunks, s.packer.merge(pending, joinSep)...)
			pending = nil
		}
		if len(rest) == 0 {
			s.log.Debug("fragment exceeds chunk size with no finer separator",
				"length", s.opts.LenFunc(fragment), "chunk_size", s.opts.ChunkSize)
			chunks = append(chunks, fragment)
		} else {
			chunks = append(chunks, s.split(fragment, rest)...)
		}
	}
	if len(pending) > 0 {
		chunks = append(chunks, s.packer.merge(pending, joinSep)...)
	}
	return chunks
}
