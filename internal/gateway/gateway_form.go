package gateway

import (
	"bytes"
	"html/template"
	"net/http"
)

var autoSubmitForm = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<form method="POST" action="{{.URL}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

type formInitiator struct{}

// NewFormInitiator renders a self-submitting HTML form.
func NewFormInitiator() RedirectInitiator {
	return formInitiator{}
}

func (formInitiator) BuildRedirect(s Session) (Handle, error) {
	var buf bytes.Buffer
	if err := autoSubmitForm.Execute(&buf, s); err != nil {
		return Handle{}, err
	}
	return Handle{
		Method: http.MethodPost,
		URL:    s.URL,
		Fields: s.Fields,
		HTML:   buf.String(),
	}, nil
}
