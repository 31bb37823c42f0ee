// Package i18n provides the locale-aware printer used for CLI output.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLang is the fallback language
var DefaultLang = language.English

// SupportedLangs are the languages we support
var SupportedLangs = []language.Tag{
	language.English,
}

var matcher = language.NewMatcher(SupportedLangs)

// MatchLanguage returns the best supported language for a locale string such
// as "en_US.UTF-8" or an Accept-Language style list.
func MatchLanguage(locale string) language.Tag {
	if i := strings.IndexAny(locale, ".@"); i != -1 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")

	if tag, err := language.Parse(locale); err == nil {
		matched, _, _ := matcher.Match(tag)
		return matched
	}
	tags, _, _ := language.ParseAcceptLanguage(locale)
	tag, _, _ := matcher.Match(tags...)
	return tag
}

// NewCLIPrinter returns a printer for the system's locale (from env vars)
func NewCLIPrinter() *message.Printer {
	lang := os.Getenv("LC_ALL")
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return message.NewPrinter(DefaultLang)
	}
	return message.NewPrinter(MatchLanguage(lang))
}
