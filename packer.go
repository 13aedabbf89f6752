package textsplit

import (
	"strings"

	"github.com/roivaz/textsplit/internal/logging"
)

// packer greedily joins ordered fragments into chunks of at most chunkSize,
// carrying up to chunkOverlap of trailing window content into the next
// chunk. It is the shared packing stage behind the character and recursive
// splitters.
type packer struct {
	chunkSize       int
	chunkOverlap    int
	lenFunc         LenFunc
	stripWhitespace bool
	log             logging.Logger
}

func newPacker(o *Options) packer {
	return packer{
		chunkSize:       o.ChunkSize,
		chunkOverlap:    o.ChunkOverlap,
		lenFunc:         o.LenFunc,
		stripWhitespace: o.StripWhitespace,
		log:             logging.New(o.Logger).WithName("textsplit"),
	}
}

// merge packs fragments in order, joining window contents with separator.
// A fragment longer than chunkSize becomes a chunk of its own: it is logged,
// never dropped or truncated. Chunks that are empty after joining and
// optional trimming are discarded.
func (p packer) merge(fragments []string, separator string) []string {
	separatorLen := p.lenFunc(separator)

	var chunks []string
	var window []string
	total := 0
	for _, fragment := range fragments {
		fragmentLen := p.lenFunc(fragment)
		gap := 0
		if len(window) > 0 {
			gap = separatorLen
		}
		if total+fragmentLen+gap > p.chunkSize {
			if total > p.chunkSize {
				p.log.Info("chunk exceeds configured size",
					"length", total, "chunk_size", p.chunkSize)
			}
			if len(window) > 0 {
				if chunk, ok := p.join(window, separator); ok {
					chunks = append(chunks, chunk)
				}
				// Shrink the window until it fits inside the overlap
				// budget and leaves room for the incoming fragment.
				for total > p.chunkOverlap ||
					(total+fragmentLen+separatorLen > p.chunkSize && total > 0) {
					head := p.lenFunc(window[0])
					if len(window) > 1 {
						head += separatorLen
					}
					total -= head
					window = window[1:]
				}
			}
		}
		window = append(window, fragment)
		total += fragmentLen
		if len(window) > 1 {
			total += separatorLen
		}
	}
	if chunk, ok := p.join(window, separator); ok {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// join concatenates fragments with separator. The second return is false
// when the result is empty and must not be emitted.
func (p packer) join(fragments []string, separator string) (string, bool) {
	chunk := strings.Join(fragments, separator)
	if p.stripWhitespace {
		chunk = strings.TrimSpace(chunk)
	}
	if chunk == "" {
		return "", false
	}
	return chunk, true
}
