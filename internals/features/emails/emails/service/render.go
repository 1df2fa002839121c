package service

import "regexp"

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// Render substitutes {{name}} placeholders, spaces around the name
// allowed. Unknown placeholders render as empty, never as the raw tag.
func Render(text string, context map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(tag string) string {
		name := placeholderRe.FindStringSubmatch(tag)[1]
		return context[name]
	})
}
