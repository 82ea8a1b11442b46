package handler

import (
	"html"
	"strings"

	"github.com/plumepress/newsletter-backend/internal/access"
	"github.com/plumepress/newsletter-backend/internal/block"
	"github.com/plumepress/newsletter-backend/internal/model"
)

// renderPage wraps a campaign's blocks in the public view page. The banner
// varies with the access decision: preview links get a loud unpublished
// notice, editors get a draft marker, published pages get the plain header.
func renderPage(c *model.Campaign, view access.View) string {
	banner := "#0073aa"
	label := "Newsletter Campaign"
	if view != access.ViewPublic {
		banner = "#dc3545"
		label = "Newsletter Preview"
	}

	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + html.EscapeString(c.Title) + `</title>
    <style>
        body { margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4; }
        .page-header { background: ` + banner + `; color: white; padding: 15px 20px; text-align: center; }
        .page-header p { margin: 0; font-size: 14px; }
        .preview-notice { background: #fff3cd; border: 1px solid #ffc107; color: #856404; padding: 12px 20px; text-align: center; font-size: 14px; }
        .draft-notice { background: #e7f3fe; border: 1px solid #0073aa; color: #00558c; padding: 12px 20px; text-align: center; font-size: 14px; }
        .newsletter-body { max-width: 600px; margin: 20px auto; background: #fff; }
    </style>
</head>
<body>
    <div class="page-header"><p>` + label + `</p></div>
`)
	switch view {
	case access.ViewPreview:
		sb.WriteString(`    <div class="preview-notice"><strong>PREVIEW MODE:</strong> This newsletter is not yet published. You are viewing it via a secure preview link.</div>
`)
	case access.ViewDraft:
		sb.WriteString(`    <div class="draft-notice"><strong>DRAFT:</strong> This newsletter is not yet published. You are viewing it as an editor.</div>
`)
	}
	sb.WriteString(`    <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%" class="newsletter-body">
`)
	if len(c.Blocks) == 0 {
		sb.WriteString(`        <tr><td style="padding: 40px; text-align: center; color: #666;"><p style="margin: 0;">Add some content blocks to your campaign to see the preview.</p></td></tr>
`)
	} else {
		sb.WriteString(block.RenderAll(c.Blocks))
	}
	sb.WriteString(`    </table>
</body>
</html>`)
	return sb.String()
}

// renderUnavailable is the generic denial page; it reveals nothing beyond
// the status code.
func renderUnavailable(forbidden bool) string {
	detail := "This newsletter is not available for viewing."
	if forbidden {
		detail = "This newsletter is not published yet and requires a valid preview link to access."
	}
	return `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Newsletter Not Available</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding: 60px 20px;">
    <h1>Newsletter Not Available</h1>
    <p>` + detail + `</p>
</body>
</html>`
}
