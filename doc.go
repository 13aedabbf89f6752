// Package textsplit turns decoded documents into ordered, size-bounded and
// optionally overlapping chunks suitable for embedding, indexing and
// retrieval pipelines.
//
// The package ships a family of splitters that share one packing primitive:
//
//   - CharacterSplitter cuts text on a single literal or regex separator.
//   - RecursiveSplitter walks an ordered separator ladder, recursing into
//     fragments that are still too large. Per-language ladders are available
//     through SeparatorsForLanguage.
//   - TokenSplitter windows over token ids produced by a Tokenizer.
//   - MarkdownSplitter and HTMLSplitter cut on document structure and tag
//     every chunk with its header lineage.
//   - StructuredSplitter decomposes nested mappings (JSON, YAML) into
//     size-bounded sub-objects that preserve key paths.
//
// Splitters are immutable after construction and safe for concurrent use.
// Splitting is pure computation: the only side effect is diagnostic logging
// through an optional logr.Logger.
package textsplit
