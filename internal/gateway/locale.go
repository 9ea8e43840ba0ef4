package gateway

import (
	"strings"
)

// allowedLanguages are the two-letter codes the gateway payment page
// supports. Anything else degrades to English.
var allowedLanguages = map[string]bool{
	"ar": true, "bg": true, "hr": true, "cs": true, "da": true,
	"nl": true, "en": true, "fi": true, "fr": true, "de": true,
	"el": true, "hu": true, "it": true, "ja": true, "lv": true,
	"no": true, "pl": true, "pt": true, "ro": true, "ru": true,
	"sk": true, "sl": true, "es": true, "sv": true, "uk": true,
	"vi": true,
}

// ResolveLanguage normalizes a locale tag ("cs", "cs-CZ", "EN") to a
// supported two-letter language code, falling back to "en" when the input
// is empty or unsupported. This is graceful degradation, not an error.
func ResolveLanguage(locale string) string {
	lang := strings.ToLower(strings.SplitN(locale, "-", 2)[0])
	if !allowedLanguages[lang] {
		return "en"
	}
	return lang
}
