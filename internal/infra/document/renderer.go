package document

import (
	"bytes"
	"context"
	"html/template"

	"app/internal/domain/model"
)

// 請求書のHTMLレンダラ。
// PDF化は外側の関心事。ここはバイト列を返すだけ。
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

type invoiceView struct {
	Invoice model.Invoice
	Order   model.Order
}

func (r *HTMLRenderer) Render(ctx context.Context, inv model.Invoice, order model.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, invoiceView{Invoice: inv, Order: order}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Invoice.Number}}</title></head>
<body>
<h1>Facture {{.Invoice.Number}}</h1>
<p>{{.Invoice.SellerName}}<br>{{.Invoice.SellerAddress}}<br>{{.Invoice.SellerTaxID}}</p>
<p>{{.Invoice.ClientName}}<br>{{.Invoice.ClientAddress}}</p>
<p>Commande {{.Order.Reference}} du {{.Invoice.InvoiceDate.Format "02/01/2006"}}</p>
<table>
{{range .Order.Lines}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.TotalPrice}}</td></tr>
{{end}}
</table>
<p>Total HT: {{.Invoice.SubtotalExclTax}}</p>
<p>TVA ({{.Invoice.VATRate}}%): {{.Invoice.VATAmount}}</p>
<p>Livraison: {{.Invoice.DeliveryFee}}</p>
<p>Total TTC: {{.Invoice.TotalInclTax}}</p>
<p>Paiement: {{.Invoice.PaymentMethod}}, échéance {{.Invoice.DueDate.Format "02/01/2006"}}</p>
</body>
</html>`
