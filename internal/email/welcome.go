package email

import (
	"fmt"
	"html"
)

// ComposeWelcome genera el correo de bienvenida para el owner recién registrado.
// Los nombres vienen del formulario de signup, así que la versión HTML los escapa.
func ComposeWelcome(businessName, ownerName string, trialDays int) (subject, htmlBody, text string) {
	subject = "Welcome to FrontDesk"
	safeOwner := html.EscapeString(ownerName)
	safeBusiness := html.EscapeString(businessName)
	htmlBody = fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Your workspace <strong>%s</strong> is ready. Your %d-day trial starts today.</p>
<p>Connect your Square account from the dashboard to go live.</p>
<p>— The FrontDesk team</p>
</body></html>`, safeOwner, safeBusiness, trialDays)
	text = fmt.Sprintf("Hi %s,\n\nYour workspace %q is ready. Your %d-day trial starts today.\nConnect your Square account from the dashboard to go live.\n\n— The FrontDesk team\n", ownerName, businessName, trialDays)
	return subject, htmlBody, text
}
