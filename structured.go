package textsplit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
	"sigs.k8s.io/yaml"
)

// DefaultMaxChunkSize bounds the serialized size of structured sub-objects.
const DefaultMaxChunkSize = 2000

// StructuredSplitter decomposes a nested mapping into a sequence of
// sub-objects whose compact JSON serialization stays below MaxChunkSize.
// Every leaf keeps its full key path, so each sub-object is interpretable on
// its own. Values are never dropped or truncated: a single leaf larger than
// the bound yields an oversize chunk.
type StructuredSplitter struct {
	maxChunkSize int
	minChunkSize int
	convertLists bool
}

// NewStructuredSplitter builds a StructuredSplitter from opts. MinChunkSize
// defaults to MaxChunkSize-200, floored at 50.
func NewStructuredSplitter(opts ...Option) (*StructuredSplitter, error) {
	o := NewOptions(opts...)
	if o.MaxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size %d", ErrInvalidChunkSize, o.MaxChunkSize)
	}
	if o.MinChunkSize < 0 {
		return nil, fmt.Errorf("%w: min chunk size %d", ErrInvalidChunkSize, o.MinChunkSize)
	}
	minChunkSize := o.MinChunkSize
	if minChunkSize == 0 {
		minChunkSize = max(o.MaxChunkSize-200, 50)
	}
	return &StructuredSplitter{
		maxChunkSize: o.MaxChunkSize,
		minChunkSize: minChunkSize,
		convertLists: o.ConvertLists,
	}, nil
}

// SplitMap splits data into size-bounded sub-objects. Map keys are visited
// in sorted order, so splits are deterministic.
func (s *StructuredSplitter) SplitMap(data map[string]any) ([]map[string]any, error) {
	if s.convertLists {
		converted, ok := convertListValues(data).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: top-level value must be a mapping", ErrNotStructured)
		}
		data = converted
	}
	chunks := []map[string]any{{}}
	if err := s.split(data, nil, &chunks); err != nil {
		return nil, err
	}
	if len(chunks) > 0 && len(chunks[len(chunks)-1]) == 0 {
		chunks = chunks[:len(chunks)-1]
	}
	return chunks, nil
}

// SplitJSON validates and parses data as a JSON object, then splits it.
func (s *StructuredSplitter) SplitJSON(data []byte) ([]map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrNotStructured)
	}
	value, ok := gjson.ParseBytes(data).Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level json value must be an object", ErrNotStructured)
	}
	return s.SplitMap(value)
}

// SplitYAML converts data from YAML to JSON and splits the resulting
// mapping.
func (s *StructuredSplitter) SplitYAML(data []byte) ([]map[string]any, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotStructured, err)
	}
	return s.SplitJSON(jsonData)
}

// SplitText splits text as a JSON document and serializes every sub-object
// back to compact JSON, one chunk per sub-object.
func (s *StructuredSplitter) SplitText(text string) ([]string, error) {
	objects, err := s.SplitJSON([]byte(text))
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(objects))
	for _, obj := range objects {
		b, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("textsplit: serialize chunk: %w", err)
		}
		texts = append(texts, string(b))
	}
	return texts, nil
}

// CreateChunks splits data and wraps every sub-object as a JSON-encoded
// Chunk carrying a copy of metadata.
func (s *StructuredSplitter) CreateChunks(data map[string]any, metadata map[string]any) ([]Chunk, error) {
	objects, err := s.SplitMap(data)
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, 0, len(objects))
	for _, obj := range objects {
		b, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("textsplit: serialize chunk: %w", err)
		}
		chunks = append(chunks, Chunk{
			Text:       string(b),
			Metadata:   cloneMetadata(metadata),
			StartIndex: -1,
		})
	}
	return chunks, nil
}

func (s *StructuredSplitter) split(data any, path []string, chunks *[]map[string]any) error {
	m, ok := data.(map[string]any)
	if !ok {
		// Leaf value: set at its full path, even when it alone exceeds the
		// size bound.
		setNested((*chunks)[len(*chunks)-1], path, data)
		return nil
	}
	for _, key := range sortedKeys(m) {
		value := m[key]
		entryPath := make([]string, len(path)+1)
		copy(entryPath, path)
		entryPath[len(path)] = key

		chunkSize, err := jsonSize((*chunks)[len(*chunks)-1])
		if err != nil {
			return err
		}
		entrySize, err := jsonSize(map[string]any{key: value})
		if err != nil {
			return err
		}
		if entrySize < s.maxChunkSize-chunkSize {
			setNested((*chunks)[len(*chunks)-1], entryPath, value)
			continue
		}
		if chunkSize >= s.minChunkSize {
			*chunks = append(*chunks, map[string]any{})
		}
		if err := s.split(value, entryPath, chunks); err != nil {
			return err
		}
	}
	return nil
}

// jsonSize measures a value by the length of its compact JSON serialization.
func jsonSize(value any) (int, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("textsplit: serialize structured value: %w", err)
	}
	return len(b), nil
}

// setNested writes value at path, materializing intermediate objects.
func setNested(obj map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		child, ok := obj[key].(map[string]any)
		if !ok {
			child = map[string]any{}
			obj[key] = child
		}
		obj = child
	}
	obj[path[len(path)-1]] = value
}

// convertListValues rewrites arrays into mappings keyed by stringified
// element index so the splitter can descend into them.
func convertListValues(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = convertListValues(val)
		}
		return out
	case []any:
		out := make(map[string]any, len(v))
		for i, item := range v {
			out[strconv.Itoa(i)] = convertListValues(item)
		}
		return out
	default:
		return v
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
