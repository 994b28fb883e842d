package domain

import "strings"

// Language represents a supported submission language
type Language string

const (
	LanguagePython Language = "python"
	LanguageJava   Language = "java"
	LanguageCpp    Language = "cpp"
)

// Runtime describes how a language maps onto the remote execution service
type Runtime struct {
	Name     string
	Version  string
	FileName string
}

// runtimes is the closed set of language variants; dispatch is table-driven,
// not open-ended string matching
var runtimes = map[Language]Runtime{
	LanguagePython: {Name: "python", Version: "3.10.0", FileName: "main.py"},
	LanguageJava:   {Name: "java", Version: "15.0.2", FileName: "Main.java"},
	LanguageCpp:    {Name: "c++", Version: "10.2.0", FileName: "main.cpp"},
}

// ParseLanguage normalizes a raw language string
func ParseLanguage(raw string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := runtimes[lang]
	return lang, ok
}

// RuntimeFor resolves the remote runtime identifier for a language
func RuntimeFor(lang Language) (Runtime, bool) {
	rt, ok := runtimes[lang]
	return rt, ok
}

// SupportedLanguages lists every language the platform accepts
func SupportedLanguages() []Language {
	return []Language{LanguagePython, LanguageJava, LanguageCpp}
}
