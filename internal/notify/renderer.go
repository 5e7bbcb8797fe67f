package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// Addresses holds the sender and recipient addresses used when rendering.
type Addresses struct {
	OrdersFrom  string
	ContactFrom string
	To          []string
}

// Renderer turns notifications into emails.
type Renderer struct {
	addr    Addresses
	order   *template.Template
	contact *template.Template
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"lineTotal": func(it ItemPayload) string {
		return fmt.Sprintf("$%.2f", it.DiscountedPrice*float64(it.Quantity))
	},
	"lines": func(s string) []string { return strings.Split(s, "\n") },
	"inc":   func(i int) int { return i + 1 },
}

const orderHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1d1d1f;">
  <h1 style="color: #d70015;">New Order Received</h1>
  <p><strong>Order Number:</strong> {{.OrderNumber}}<br>
     <strong>Placed:</strong> {{.Timestamp}}<br>
     <strong>Payment Method:</strong> {{.PaymentMethod}}</p>

  <h2>Customer</h2>
  <p>{{.CustomerInfo.FirstName}} {{.CustomerInfo.LastName}}<br>
     {{.CustomerInfo.Email}}<br>
     {{.CustomerInfo.Phone}}<br>
     {{.CustomerInfo.Country}}</p>

  <h2>Shipping Address</h2>
  <p>{{.ShippingInfo.Address}}<br>
     {{.ShippingInfo.City}}, {{.ShippingInfo.State}} {{.ShippingInfo.ZipCode}}<br>
     {{.ShippingInfo.Country}}</p>
  <p><strong>{{.ShippingType.Name}}</strong> ({{.ShippingType.Time}}) {{money .ShippingType.Price}}</p>

  <h2>Items ({{.ItemCount}})</h2>
  {{range $i, $it := .Items}}
  <table cellpadding="6" style="border: 1px solid #d2d2d7; border-collapse: collapse; width: 100%; margin-bottom: 12px;">
    <tr>
      <td valign="top" width="160"><img src="{{if $it.Image}}{{$it.Image}}{{else}}/placeholder.svg{{end}}" alt="{{$it.Name}}" style="max-width: 150px; height: auto;"></td>
      <td valign="top">
        <h3 style="margin: 0 0 8px 0;">{{inc $i}}. {{$it.Name}}</h3>
        <p><strong>Category:</strong> {{$it.Category}}<br>
           {{if $it.Series}}<strong>Series:</strong> {{$it.Series}}<br>{{end}}
           <strong>Selected Color:</strong> {{if $it.SelectedColor}}{{$it.SelectedColor}}{{else}}Default{{end}}<br>
           <strong>Quantity:</strong> {{$it.Quantity}}</p>
        <p><strong>Original Price:</strong> <span style="text-decoration: line-through;">{{money $it.OriginalPrice}}</span><br>
           <strong>Discounted Price:</strong> {{money $it.DiscountedPrice}}<br>
           <strong>Discount:</strong> {{$it.Discount}}% OFF<br>
           <strong>Line Total:</strong> {{lineTotal $it}}</p>
        {{if $it.Description}}<p><em>{{$it.Description}}</em></p>{{end}}
        {{if $it.Features}}<p><strong>Features:</strong></p>
        <ul>{{range $it.Features}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if $it.Colors}}<p><strong>Available Colors:</strong> {{range $j, $c := $it.Colors}}{{if $j}}, {{end}}{{if eq $c $it.SelectedColor}}<strong>{{$c}} &#10003;</strong>{{else}}{{$c}}{{end}}{{end}}</p>{{end}}
        <p><strong>Availability:</strong> {{if $it.InStock}}In Stock{{else}}Out of Stock{{end}}</p>
      </td>
    </tr>
  </table>
  {{end}}

  <p style="text-align: right;">Subtotal: {{money .Subtotal}}<br>
     Shipping: {{money .ShippingCost}}<br>
     <strong>Total: {{money .TotalAmount}}</strong></p>
</body>
</html>`

const contactHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1d1d1f;">
  <h1>New Contact Form Message</h1>
  <p><strong>Name:</strong> {{.Name}}<br>
     <strong>Email:</strong> {{.Email}}</p>
  <h2>Message</h2>
  <p>{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
</body>
</html>`

// NewRenderer parses the email templates.
func NewRenderer(addr Addresses) *Renderer {
	return &Renderer{
		addr:    addr,
		order:   template.Must(template.New("order").Funcs(funcs).Parse(orderHTML)),
		contact: template.Must(template.New("contact").Funcs(funcs).Parse(contactHTML)),
	}
}

// Render builds the email for a notification.
func (r *Renderer) Render(n Notification) (Email, error) {
	switch n.Template {
	case TemplateOrder:
		var p OrderPayload
		if err := json.Unmarshal(n.Payload, &p); err != nil {
			return Email{}, fmt.Errorf("%w: order payload: %v", ErrMalformed, err)
		}
		return r.RenderOrder(p)
	case TemplateContact:
		var p ContactPayload
		if err := json.Unmarshal(n.Payload, &p); err != nil {
			return Email{}, fmt.Errorf("%w: contact payload: %v", ErrMalformed, err)
		}
		return r.RenderContact(p)
	default:
		return Email{}, fmt.Errorf("%w: unknown template %q", ErrMalformed, n.Template)
	}
}

// RenderOrder builds the order email.
func (r *Renderer) RenderOrder(p OrderPayload) (Email, error) {
	var buf bytes.Buffer
	if err := r.order.Execute(&buf, p); err != nil {
		return Email{}, fmt.Errorf("failed to render order email: %w", err)
	}
	return Email{
		From:    r.addr.OrdersFrom,
		To:      r.addr.To,
		Subject: OrderSubject(p),
		HTML:    buf.String(),
	}, nil
}

// RenderContact builds the contact email. Replies go to the sender.
func (r *Renderer) RenderContact(p ContactPayload) (Email, error) {
	var buf bytes.Buffer
	if err := r.contact.Execute(&buf, p); err != nil {
		return Email{}, fmt.Errorf("failed to render contact email: %w", err)
	}
	return Email{
		From:    r.addr.ContactFrom,
		To:      r.addr.To,
		Subject: ContactSubject(p),
		HTML:    buf.String(),
		ReplyTo: p.Email,
	}, nil
}

// OrderSubject formats the order email subject line.
func OrderSubject(p OrderPayload) string {
	return fmt.Sprintf("URGENT: New Order #%s - $%.2f - %s %s - %s",
		p.OrderNumber, p.TotalAmount, p.CustomerInfo.FirstName, p.CustomerInfo.LastName, p.PaymentMethod)
}

// ContactSubject formats the contact email subject line.
func ContactSubject(p ContactPayload) string {
	return fmt.Sprintf("Contact Form: %s - %s", p.Name, p.Email)
}
