package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

// hexEscapes maps the `\xNN` sequences Netflix embeds in the react context
// blob to their literal characters. These are not valid JSON escapes so they
// have to go before the blob is parsed.
var hexEscapes = [...][2]string{
	{`\x20`, " "},
	{`\x2F`, "/"},
	{`\x2A`, "*"},
	{`\x2B`, "+"},
	{`\x3D`, "="},
	{`\x26`, "&"},
	{`\x3B`, ";"},
	{`\x24`, "$"},
	{`\x27`, "'"},
	{`\x40`, "@"},
	{`\x28`, "("},
	{`\x3C`, "<"},
	{`\x3E`, ">"},
	{`\x29`, ")"},
	{`\x23`, "#"},
	{`\x3F`, "?"},
	{`\x7C`, "|"},
	{`\x21`, "!"},
}

// DecodeHexEscapes replaces the known `\xNN` escape sequences with their
// UTF-8 characters. Input free of such sequences comes back unchanged.
func DecodeHexEscapes(s string) string {
	if !strings.Contains(s, `\x`) {
		return s
	}
	for _, pair := range hexEscapes {
		s = strings.ReplaceAll(s, pair[0], pair[1])
	}
	return s
}
