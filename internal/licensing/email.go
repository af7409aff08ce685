package licensing

import (
	"fmt"

	"github.com/mikekode/creenly-licensing/pkg/resend"
)

const emailSubject = "Your Creenly License Key"

// Keys only ever contain [A-Z0-9-], so the template needs no HTML escaping.
const emailBodyTemplate = `<h1>Welcome to Creenly!</h1>
<p>Thank you for your purchase.</p>
<p><strong>Your License Key:</strong></p>
<h2 style="font-family: monospace; background: #eee; padding: 10px;">%s</h2>
<p>Activate this key in the Settings panel of the Church Projector app.</p>`

func licenseEmail(from, to, key string) resend.Message {
	return resend.Message{
		From:    from,
		To:      to,
		Subject: emailSubject,
		HTML:    fmt.Sprintf(emailBodyTemplate, key),
	}
}
