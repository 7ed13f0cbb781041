package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var invitationHTML = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1f2937;">
    <h2>You have been invited to {{.ProjectName}}</h2>
    <p>Someone added you to the project <strong>{{.ProjectName}}</strong>.</p>
    <p>Set a password to activate your account and join the board:</p>
    <p><a href="{{.AcceptURL}}" style="background:#2563eb;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none;">Accept invitation</a></p>
    <p style="color:#6b7280;font-size:13px;">The link expires at {{.ExpiresAt}}. If you did not expect this email you can ignore it.</p>
  </body>
</html>`))

// Render renders a named template into (subject, text, html).
func Render(name string, data map[string]any) (string, string, string, error) {
	switch name {
	case "invitation":
		var buf bytes.Buffer
		if err := invitationHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject := fmt.Sprintf("You have been invited to %v", data["ProjectName"])
		text := fmt.Sprintf("You have been invited to %v. Accept: %v", data["ProjectName"], data["AcceptURL"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
