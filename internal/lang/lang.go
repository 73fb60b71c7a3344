// Package lang maps files and hints to the languages treelint can parse.
package lang

import (
	"path/filepath"
	"strings"
)

// Language represents a supported programming language.
type Language string

const (
	Go         Language = "go"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Python     Language = "python"
	Rust       Language = "rust"
	Java       Language = "java"
	Kotlin     Language = "kotlin"
)

// All lists every supported language in stable order.
func All() []Language {
	return []Language{Go, JavaScript, TypeScript, TSX, Python, Rust, Java, Kotlin}
}

// FromExtension returns the Language for a file extension.
func FromExtension(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".go":
		return Go, true
	case ".js", ".mjs", ".cjs":
		return JavaScript, true
	case ".ts", ".mts", ".cts":
		return TypeScript, true
	case ".tsx":
		return TSX, true
	case ".jsx":
		return JavaScript, true // JSX uses the JS parser
	case ".py", ".pyw":
		return Python, true
	case ".rs":
		return Rust, true
	case ".java":
		return Java, true
	case ".kt", ".kts":
		return Kotlin, true
	default:
		return "", false
	}
}

// FromHint resolves an explicit language hint string.
func FromHint(hint string) (Language, bool) {
	switch strings.ToLower(hint) {
	case "go", "golang":
		return Go, true
	case "js", "javascript", "jsx":
		return JavaScript, true
	case "ts", "typescript":
		return TypeScript, true
	case "tsx":
		return TSX, true
	case "py", "python":
		return Python, true
	case "rs", "rust":
		return Rust, true
	case "java":
		return Java, true
	case "kt", "kotlin":
		return Kotlin, true
	default:
		return "", false
	}
}

// Detect resolves the language for a path, preferring an explicit hint.
func Detect(path, hint string) (Language, bool) {
	if hint != "" {
		return FromHint(hint)
	}
	return FromExtension(filepath.Ext(path))
}
