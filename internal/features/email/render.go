package email

import "strings"

// RenderValues carries the substitution values for the known placeholders.
// Empty fields fall back to a human-readable marker rather than an error.
type RenderValues struct {
	SenderName    string
	HRName        string
	Company       string
	Position      string
	RecipientName string
}

// Render replaces the recognized placeholder tokens in text. Unrecognized
// tokens are left verbatim. Pure string transform, no side effects.
func Render(text string, vals RenderValues) string {
	result := text
	result = strings.ReplaceAll(result, "{{name}}", fallback(vals.SenderName, "[Your Name]"))
	result = strings.ReplaceAll(result, "{{hrName}}", fallback(vals.HRName, "[Hiring Manager]"))
	result = strings.ReplaceAll(result, "{{company}}", fallback(vals.Company, "[Company]"))
	result = strings.ReplaceAll(result, "{{position}}", fallback(vals.Position, "[Position]"))
	result = strings.ReplaceAll(result, "{{recipientName}}", fallback(vals.RecipientName, "[Recipient]"))
	return result
}

func fallback(value, marker string) string {
	if strings.TrimSpace(value) == "" {
		return marker
	}
	return value
}
