package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
)

// Details are the fixed facts printed in every confirmation.
type Details struct {
	EventName    string
	Venue        string
	VenueAddress string
	ContactEmail string
	ReplyTo      string
}

const plainFallback = "Registration Successful! Please view this email in a browser that supports HTML."

var confirmationTmpl = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"md": escapeMarkdown,
}).Parse(`## Registration Successful!

Dear **{{md .Record.FullName}}**,

We are thrilled to confirm your participation in **{{md .EventName}}**. Your registration has been successfully recorded.

### Registration Details

- **Selected Events:** {{md .Record.EventList}}
- **Institution:** {{md .Record.CollegeName}}
{{if .Venue}}
### Venue: {{md .Venue}}

{{md .VenueAddress}}
{{end}}{{if .ContactEmail}}
If you have any queries, please reach us at: **{{md .ContactEmail}}**
{{end}}`))

// Notifier composes and sends confirmation emails.
type Notifier struct {
	sender  Sender
	details Details
	md      goldmark.Markdown
}

// NewNotifier constructs a Notifier. Raw HTML in the rendered Markdown is
// dropped by goldmark's default renderer.
func NewNotifier(sender Sender, details Details) *Notifier {
	return &Notifier{
		sender:  sender,
		details: details,
		md:      goldmark.New(),
	}
}

// Compose builds the confirmation message for rec.
func (n *Notifier) Compose(rec model.RegistrationRecord) (Message, error) {
	var src bytes.Buffer
	err := confirmationTmpl.Execute(&src, struct {
		Details
		Record model.RegistrationRecord
	}{n.details, rec})
	if err != nil {
		return Message{}, fmt.Errorf("render confirmation: %w", err)
	}

	var html bytes.Buffer
	if err := n.md.Convert(src.Bytes(), &html); err != nil {
		return Message{}, fmt.Errorf("convert confirmation: %w", err)
	}

	return Message{
		To:      []string{rec.Email},
		Subject: fmt.Sprintf("Confirmation: Your Registration for %s", n.details.EventName),
		HTML:    html.String(),
		Text:    plainFallback,
		ReplyTo: n.details.ReplyTo,
	}, nil
}

// Confirm composes and sends the confirmation for rec.
func (n *Notifier) Confirm(ctx context.Context, rec model.RegistrationRecord) (Receipt, error) {
	msg, err := n.Compose(rec)
	if err != nil {
		return Receipt{}, err
	}
	return n.sender.Send(ctx, msg)
}

// Entities such as &lt; from sanitized input are left intact.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"~", `\~`,
	"|", `\|`,
	"!", `\!`,
	"<", `\<`,
	">", `\>`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
