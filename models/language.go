package models

// Language is the syntax tag attached to a paste. It is a labeling hint for
// clients and the download filename, never a constraint on the content.
type Language string

// Known language tags and their download file extensions.
var languageExtensions = map[Language]string{
	"text":       "txt",
	"javascript": "js",
	"typescript": "ts",
	"python":     "py",
	"java":       "java",
	"html":       "html",
	"css":        "css",
	"json":       "json",
	"xml":        "xml",
	"sql":        "sql",
	"php":        "php",
	"cpp":        "cpp",
	"c":          "c",
	"ruby":       "rb",
	"go":         "go",
	"rust":       "rs",
	"swift":      "swift",
	"kotlin":     "kt",
}

// LanguageText is the fallback tag for unknown or missing languages.
const LanguageText Language = "text"

// IsValid reports whether l is a known language tag.
func (l Language) IsValid() bool {
	_, ok := languageExtensions[l]
	return ok
}

// Normalize maps unknown or empty tags to the plain-text fallback.
func (l Language) Normalize() Language {
	if l.IsValid() {
		return l
	}
	return LanguageText
}

// Extension returns the download file extension for the language.
func (l Language) Extension() string {
	if ext, ok := languageExtensions[l]; ok {
		return ext
	}
	return "txt"
}
