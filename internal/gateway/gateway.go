// Package gateway turns a signed payment session into a redirect the
// operator's browser can follow. The signature is opaque here and is never
// recomputed or altered.
package gateway

import (
	"net/http"
	"strings"

	"go-payrun/internal/engine"
	"go-payrun/internal/shared/apperror"
)

// FieldNames is the exact set and order of fields posted to the gateway.
var FieldNames = []string{
	"amount",
	"tax_amount",
	"total_amount",
	"transaction_uuid",
	"product_code",
	"product_service_charge",
	"product_delivery_charge",
	"success_url",
	"failure_url",
	"signed_field_names",
	"signature",
}

var ErrIncompleteSession = apperror.New(
	apperror.CodeUpstreamFailure,
	"payment gateway session is incomplete",
	http.StatusBadGateway,
)

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is a gateway session ready to post. It is consumed once.
type Session struct {
	URL    string
	Fields []Field
}

// Defaults fill values the engine may leave out.
type Defaults struct {
	FormURL          string
	SignedFieldNames string
}

// NewSession maps the engine's initiate response onto the posted fields.
// Service and delivery charges default to "0"; every other field must be
// present.
func NewSession(s engine.GatewaySession, def Defaults) (Session, error) {
	values := map[string]string{
		"amount":                  s.Amount.String(),
		"tax_amount":              s.TaxAmount.String(),
		"total_amount":            s.TotalAmount.String(),
		"transaction_uuid":        s.TransactionUUID.String(),
		"product_code":            s.ProductCode.String(),
		"product_service_charge":  s.ProductServiceCharge.String(),
		"product_delivery_charge": s.ProductDeliveryCharge.String(),
		"success_url":             s.SuccessURL.String(),
		"failure_url":             s.FailureURL.String(),
		"signed_field_names":      s.SignedFieldNames.String(),
		"signature":               s.Signature.String(),
	}
	if values["product_service_charge"] == "" {
		values["product_service_charge"] = "0"
	}
	if values["product_delivery_charge"] == "" {
		values["product_delivery_charge"] = "0"
	}
	if values["tax_amount"] == "" {
		values["tax_amount"] = "0"
	}
	if values["signed_field_names"] == "" {
		values["signed_field_names"] = def.SignedFieldNames
	}

	url := strings.TrimSpace(s.FormURL.String())
	if url == "" {
		url = def.FormURL
	}
	if url == "" {
		return Session{}, ErrIncompleteSession.WithMessage("payment gateway URL is not configured")
	}

	fields := make([]Field, 0, len(FieldNames))
	var missing []string
	for _, name := range FieldNames {
		v := values[name]
		if v == "" {
			missing = append(missing, name)
		}
		fields = append(fields, Field{Name: name, Value: v})
	}
	if len(missing) > 0 {
		return Session{}, ErrIncompleteSession.WithDetails(map[string][]string{"missing": missing})
	}
	return Session{URL: url, Fields: fields}, nil
}

// Handle is the opaque result of building a redirect. Clients either render
// HTML as is or post Fields to URL themselves.
type Handle struct {
	Method string  `json:"method"`
	URL    string  `json:"url"`
	Fields []Field `json:"fields"`
	HTML   string  `json:"html,omitempty"`
}

// RedirectInitiator builds the browser hand-off for a gateway session.
//
//go:generate mockgen -source=gateway.go -destination=mock/gateway_mock.go -package=mock
type RedirectInitiator interface {
	BuildRedirect(s Session) (Handle, error)
}
