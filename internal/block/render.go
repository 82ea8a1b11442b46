package block

import (
	"html"
	"strings"
)

// Render maps one block to its email table markup. Every variant is handled
// here; an unhandled variant renders to nothing.
func Render(b Block) string {
	switch v := b.(type) {
	case Header:
		return renderHeader(v)
	case Text:
		return renderText(v)
	case Image:
		return renderImage(v)
	case Button:
		return renderButton(v)
	case Footer:
		return renderFooter(v)
	default:
		return ""
	}
}

// RenderAll renders an ordered block sequence, each wrapped in its own row.
func RenderAll(bs Blocks) string {
	var sb strings.Builder
	for _, b := range bs {
		sb.WriteString(`<tr><td style="padding: 0;">`)
		sb.WriteString(Render(b))
		sb.WriteString(`</td></tr>`)
	}
	return sb.String()
}

func alignment(value, fallback string) string {
	switch value {
	case "left", "center", "right":
		return value
	}
	return fallback
}

func renderHeader(b Header) string {
	var sb strings.Builder
	sb.WriteString(`<table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%" style="background-color: #333;">`)
	sb.WriteString(`<tr><td style="padding: 20px; text-align: center; color: white;">`)
	if b.LogoURL != "" {
		sb.WriteString(`<img src="` + html.EscapeString(b.LogoURL) + `" alt="` + html.EscapeString(b.LogoAlt) + `" style="max-width: 200px; height: auto; margin-bottom: 10px; display: block; margin-left: auto; margin-right: auto;">`)
	}
	if b.Title != "" {
		sb.WriteString(`<h1 style="margin: 10px 0; color: white; font-size: 24px; line-height: 1.2;">` + html.EscapeString(b.Title) + `</h1>`)
	}
	if b.Subtitle != "" {
		sb.WriteString(`<p style="margin: 5px 0 0 0; color: #ccc; font-size: 16px; line-height: 1.4;">` + html.EscapeString(b.Subtitle) + `</p>`)
	}
	sb.WriteString(`</td></tr></table>`)
	return sb.String()
}

func renderText(b Text) string {
	align := alignment(b.Alignment, "left")
	var sb strings.Builder
	sb.WriteString(`<table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%">`)
	sb.WriteString(`<tr><td style="padding: 20px; text-align: ` + align + `; line-height: 1.6;">`)
	// Content is editor-authored HTML and passes through as-is.
	sb.WriteString(b.Content)
	sb.WriteString(`</td></tr></table>`)
	return sb.String()
}

func renderImage(b Image) string {
	if b.URL == "" {
		return ""
	}
	align := alignment(b.Alignment, "center")
	var sb strings.Builder
	sb.WriteString(`<table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%">`)
	sb.WriteString(`<tr><td style="padding: 20px; text-align: ` + align + `;">`)
	sb.WriteString(`<img src="` + html.EscapeString(b.URL) + `" alt="` + html.EscapeString(b.AltText) + `" style="max-width: 100%; height: auto; display: block;`)
	if align == "center" {
		sb.WriteString(` margin-left: auto; margin-right: auto;`)
	}
	sb.WriteString(`">`)
	sb.WriteString(`</td></tr></table>`)
	return sb.String()
}

func renderButton(b Button) string {
	align := alignment(b.Alignment, "center")
	color := b.Color
	if color == "" {
		color = "#007cba"
	}
	var sb strings.Builder
	sb.WriteString(`<table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%">`)
	sb.WriteString(`<tr><td style="padding: 20px; text-align: ` + align + `;">`)
	sb.WriteString(`<a href="` + html.EscapeString(b.URL) + `" style="display: inline-block; padding: 12px 24px; background-color: ` + html.EscapeString(color) + `; color: white; text-decoration: none; border-radius: 4px; font-weight: bold; font-size: 16px;">`)
	sb.WriteString(html.EscapeString(b.Text))
	sb.WriteString(`</a>`)
	sb.WriteString(`</td></tr></table>`)
	return sb.String()
}

func renderFooter(b Footer) string {
	var sb strings.Builder
	sb.WriteString(`<table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%" style="background-color: #f8f8f8; border-top: 1px solid #ddd;">`)
	sb.WriteString(`<tr><td style="padding: 20px; text-align: center; font-size: 14px; color: #666; line-height: 1.4;">`)
	if b.Content != "" {
		content := strings.ReplaceAll(html.EscapeString(b.Content), "\n", "<br>")
		sb.WriteString(`<p style="margin: 0 0 10px 0;">` + content + `</p>`)
	}
	if b.IncludeUnsubscribe {
		sb.WriteString(`<p style="margin: 10px 0 0 0;"><a href="#unsubscribe" style="color: #666; text-decoration: underline;">Unsubscribe</a></p>`)
	}
	sb.WriteString(`</td></tr></table>`)
	return sb.String()
}
