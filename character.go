package textsplit

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// CharacterSplitter cuts text on a single separator and packs the resulting
// fragments into size-bounded chunks. The separator is a literal by default
// and a regular expression with WithSeparatorRegex. An empty separator splits
// the text into individual runes.
type CharacterSplitter struct {
	opts   Options
	sep    *regexp.Regexp // nil when the separator is empty
	packer packer
}

// NewCharacterSplitter builds a CharacterSplitter from opts. It fails when
// the size configuration is invalid or the separator does not compile.
func NewCharacterSplitter(opts ...Option) (*CharacterSplitter, error) {
	o := NewOptions(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}
	sep, err := compileSeparator(o.Separator, o.SeparatorRegex)
	if err != nil {
		return nil, err
	}
	return &CharacterSplitter{opts: o, sep: sep, packer: newPacker(&o)}, nil
}

// SplitText splits text on the configured separator and returns the packed
// chunks in document order.
func (s *CharacterSplitter) SplitText(text string) ([]string, error) {
	fragments := splitOnPattern(text, s.sep, s.opts.KeepSeparator)
	joinSep := s.opts.Separator
	if s.opts.KeepSeparator {
		joinSep = ""
	}
	return s.packer.merge(fragments, joinSep), nil
}

func (s *CharacterSplitter) splitOptions() *Options {
	return &s.opts
}

// compileSeparator turns a separator into a pattern, quoting it unless regex
// mode is on. Empty separators compile to nil, which means rune splitting.
func compileSeparator(separator string, isRegex bool) (*regexp.Regexp, error) {
	if separator == "" {
		return nil, nil
	}
	pattern := separator
	if !isRegex {
		pattern = regexp.QuoteMeta(separator)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("textsplit: compile separator %q: %w", separator, err)
	}
	return re, nil
}

// splitOnPattern splits text on every match of re, dropping empty fragments.
// A nil pattern splits into runes. With keepSeparator every match stays
// attached to the end of the fragment preceding it, so concatenating the
// fragments reproduces the input.
func splitOnPattern(text string, re *regexp.Regexp, keepSeparator bool) []string {
	if re == nil {
		return splitRunes(text)
	}
	var fragments []string
	if keepSeparator {
		start := 0
		for _, loc := range re.FindAllStringIndex(text, -1) {
			fragments = append(fragments, text[start:loc[1]])
			start = loc[1]
		}
		fragments = append(fragments, text[start:])
	} else {
		fragments = re.Split(text, -1)
	}
	return dropEmpty(fragments)
}

func splitRunes(text string) []string {
	fragments := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		fragments = append(fragments, string(r))
	}
	return fragments
}

func dropEmpty(fragments []string) []string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return kept
}
