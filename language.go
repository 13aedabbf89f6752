package textsplit

import (
	"fmt"
	"sort"
	"strings"
)

// Language names a built-in separator ladder for the recursive splitter.
type Language string

// Built-in language presets.
const (
	LanguageC          Language = "c"
	LanguageCPP        Language = "cpp"
	LanguageCSharp     Language = "csharp"
	LanguageDiff       Language = "diff"
	LanguageGo         Language = "go"
	LanguageHTML       Language = "html"
	LanguageJava       Language = "java"
	LanguageJavaScript Language = "javascript"
	LanguageKotlin     Language = "kotlin"
	LanguageLaTeX      Language = "latex"
	LanguageLua        Language = "lua"
	LanguageMarkdown   Language = "markdown"
	LanguagePHP        Language = "php"
	LanguageProto      Language = "proto"
	LanguagePython     Language = "python"
	LanguageRuby       Language = "ruby"
	LanguageRust       Language = "rust"
	LanguageScala      Language = "scala"
	LanguageSolidity   Language = "solidity"
	LanguageSwift      Language = "swift"
	LanguageTypeScript Language = "typescript"
)

// languageSeparators maps each preset to its separator ladder, ordered from
// the coarsest construct to the empty fallback. Ladders are literals; they
// lean on the convention that top-level declarations start at column zero
// after a newline.
var languageSeparators = map[Language][]string{
	LanguageC: {
		"\nclass ", "\nvoid ", "\nint ", "\nfloat ", "\ndouble ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	LanguageCPP: {
		"\nclass ", "\nvoid ", "\nint ", "\nfloat ", "\ndouble ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	LanguageCSharp: {
		"\ninterface ", "\nenum ", "\nimplements ", "\ndelegate ", "\nevent ",
		"\nclass ", "\nabstract ", "\npublic ", "\nprotected ", "\nprivate ",
		"\nstatic ", "\nreturn ", "\nif ", "\ncontinue ", "\nfor ",
		"\nforeach ", "\nwhile ", "\nswitch ", "\nbreak ", "\ncase ", "\nelse ",
		"\n\n", "\n", " ", "",
	},
	LanguageDiff: {
		"\n@@", "\ndiff --git", "\n", "",
	},
	LanguageGo: {
		"\nfunc ", "\nvar ", "\nconst ", "\ntype ",
		"\nif ", "\nfor ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	LanguageHTML: {
		"<body", "<div", "<p", "<br", "<li",
		"<h1", "<h2", "<h3", "<h4", "<h5", "<h6",
		"<span", "<table", "<tr", "<td", "<th", "<ul", "<ol",
		"<header", "<footer", "<nav", "<head", "<style", "<script",
		"<meta", "<title", "",
	},
	LanguageJava: {
		"\nclass ", "\npublic ", "\nprotected ", "\nprivate ", "\nstatic ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	LanguageJavaScript: {
		"\nfunction ", "\nconst ", "\nlet ", "\nvar ", "\nclass ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ", "\ndefault ",
		"\n\n", "\n", " ", "",
	},
	LanguageKotlin: {
		"\nclass ", "\npublic ", "\nprotected ", "\nprivate ", "\ninternal ",
		"\ncompanion ", "\nfun ", "\nval ", "\nvar ",
		"\nif ", "\nfor ", "\nwhile ", "\nwhen ", "\ncase ", "\nelse ",
		"\n\n", "\n", " ", "",
	},
	LanguageLaTeX: {
		"\n\\chapter{", "\n\\section{", "\n\\subsection{", "\n\\subsubsection{",
		"\n\\begin{enumerate}", "\n\\begin{itemize}", "\n\\begin{description}",
		"\n\\begin{list}", "\n\\begin{quote}", "\n\\begin{quotation}",
		"\n\\begin{verse}", "\n\\begin{verbatim}", "\n\\begin{align}",
		"$$", "$", " ", "",
	},
	LanguageLua: {
		"\nlocal ", "\nfunction ", "\nif ", "\nfor ", "\nwhile ", "\nrepeat ",
		"\n\n", "\n", " ", "",
	},
	LanguageMarkdown: {
		"\n```",
		"\n# ", "\n## ", "\n### ",
		"\n- ", "\n* ",
		"\n", "",
	},
	LanguagePHP: {
		"\nfunction ", "\nclass ", "\nif ", "\nforeach ", "\nwhile ",
		"\ndo ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	LanguageProto: {
		"\nmessage ", "\nservice ", "\nenum ", "\noption ", "\nimport ", "\nsyntax ",
		"\n\n", "\n", " ", "",
	},
	LanguagePython: {
		"\nclass ", "\ndef ", "\n\tdef ",
		"\n\n", "\n", " ", "",
	},
	LanguageRuby: {
		"\ndef ", "\nclass ", "\nif ", "\nunless ", "\nwhile ", "\nfor ",
		"\ndo ", "\nbegin ", "\nrescue ",
		"\n\n", "\n", " ", "",
	},
	LanguageRust: {
		"\nfn ", "\nconst ", "\nlet ", "\nif ", "\nwhile ", "\nfor ",
		"\nloop ", "\nmatch ",
		"\n\n", "\n", " ", "",
	},
	LanguageScala: {
		"\nclass ", "\nobject ", "\ndef ", "\nval ", "\nvar ",
		"\nif ", "\nfor ", "\nwhile ", "\nmatch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	LanguageSolidity: {
		"\npragma ", "\nusing ", "\ncontract ", "\ninterface ", "\nlibrary ",
		"\nconstructor ", "\ntype ", "\nfunction ", "\nevent ", "\nmodifier ",
		"\nerror ", "\nstruct ", "\nenum ",
		"\nif ", "\nfor ", "\nwhile ", "\ndo while ", "\nassembly ",
		"\n\n", "\n", " ", "",
	},
	LanguageSwift: {
		"\nfunc ", "\nclass ", "\nstruct ", "\nenum ",
		"\nif ", "\nfor ", "\nwhile ", "\ndo ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	LanguageTypeScript: {
		"\nenum ", "\ninterface ", "\nnamespace ", "\ntype ", "\nclass ",
		"\nfunction ", "\nconst ", "\nlet ", "\nvar ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ", "\ndefault ",
		"\n\n", "\n", " ", "",
	},
}

// SeparatorsForLanguage returns a copy of the separator ladder for lang. The
// error for an unknown preset lists every valid name.
func SeparatorsForLanguage(lang Language) ([]string, error) {
	separators, ok := languageSeparators[lang]
	if !ok {
		return nil, fmt.Errorf("%w %q, valid presets: %s",
			ErrUnknownLanguage, lang, strings.Join(languageNames(), ", "))
	}
	out := make([]string, len(separators))
	copy(out, separators)
	return out, nil
}

// Languages lists every built-in preset in sorted order.
func Languages() []Language {
	langs := make([]Language, 0, len(languageSeparators))
	for lang := range languageSeparators {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

func languageNames() []string {
	langs := Languages()
	names := make([]string, len(langs))
	for i, lang := range langs {
		names[i] = string(lang)
	}
	return names
}
