package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/plumepress/newsletter-backend/internal/block"
)

// Document assembles the full email HTML around a campaign's blocks: the
// 600px table wrapper, an optional view-online bar, and the standing footer.
type Document struct {
	Title         string
	Blocks        block.Blocks
	ViewOnlineURL string
	// ShowViewOnlineBar adds the "trouble viewing this email?" bar at the
	// top. Only meaningful once the campaign is published.
	ShowViewOnlineBar bool
	SiteName          string
}

func (d Document) HTML() string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="X-UA-Compatible" content="IE=edge">
    <title>` + html.EscapeString(d.Title) + `</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
    <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%" style="background-color: #f4f4f4;">
        <tr>
            <td align="center" style="padding: 20px 10px;">
                <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="600" style="width: 600px; max-width: 600px; background-color: #ffffff; margin: 0 auto;">
`)
	if d.ShowViewOnlineBar && d.ViewOnlineURL != "" {
		sb.WriteString(`                    <tr>
                        <td style="background-color: #f8f8f8; padding: 10px 20px; text-align: center; font-size: 12px; color: #666; border-bottom: 1px solid #ddd;">
                            Having trouble viewing this email? <a href="` + html.EscapeString(d.ViewOnlineURL) + `" style="color: #0073aa; text-decoration: underline;">View it online</a>
                        </td>
                    </tr>
`)
	}
	sb.WriteString(block.RenderAll(d.Blocks))
	sb.WriteString(`
                    <tr>
                        <td>
                            <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%" style="background-color: #f8f8f8; border-top: 1px solid #ddd;">
                                <tr>
                                    <td style="padding: 20px; text-align: center; font-size: 14px; color: #666; line-height: 1.4;">
                                        <p style="margin: 0 0 10px 0;">` + fmt.Sprintf("© %d %s. All rights reserved.", time.Now().Year(), html.EscapeString(d.SiteName)) + `</p>
                                        <p style="margin: 0;"><a href="#unsubscribe" style="color: #666; text-decoration: underline;">Unsubscribe</a> |
                                         <a href="` + html.EscapeString(d.ViewOnlineURL) + `" style="color: #666; text-decoration: underline;">View Online</a></p>
                                    </td>
                                </tr>
                            </table>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`)
	return sb.String()
}
