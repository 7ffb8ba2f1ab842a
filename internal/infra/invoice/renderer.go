// Package invoice renders order invoices to files. Generation is best
// effort: callers log failures and never fail the order operation over them.
package invoice

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"order-engine/internal/domain"
)

type Renderer struct {
	dir  string
	tmpl *template.Template
}

func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{dir: dir, tmpl: tmpl}, nil
}

type invoiceLine struct {
	ProductName    string
	Quantity       int
	OriginalPrice  string
	Price          string
	DiscountAmount string
	Total          string
}

type invoiceView struct {
	ID             uint64
	OrderDate      string
	Status         string
	Recipient      string
	Lines          []invoiceLine
	SubTotal       string
	DiscountAmount string
	HasDiscount    bool
	VatAmount      string
	DeliveryFee    string
	FinalAmount    string
	Year           int
}

// Generate writes the invoice for the order and returns the file path.
func (r *Renderer) Generate(order *domain.Order) (string, error) {
	name := fmt.Sprintf("invoice-%d-%s.html", order.ID, time.Now().Format("20060102150405"))
	path := filepath.Join(r.dir, name)

	view := invoiceView{
		ID:             order.ID,
		OrderDate:      order.OrderDate.Format("2006-01-02 15:04"),
		Status:         string(order.Status),
		SubTotal:       order.SubTotal.StringFixed(2),
		DiscountAmount: order.DiscountAmount.StringFixed(2),
		HasDiscount:    order.DiscountAmount.IsPositive(),
		VatAmount:      order.VatAmount.StringFixed(2),
		DeliveryFee:    order.DeliveryFee.StringFixed(2),
		FinalAmount:    order.FinalAmount().StringFixed(2),
		Year:           time.Now().Year(),
	}
	if order.Address != nil {
		view.Recipient = fmt.Sprintf("%s, %s %s", order.Address.FullName, order.Address.City, order.Address.Street)
	}
	for _, item := range order.Items {
		view.Lines = append(view.Lines, invoiceLine{
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			OriginalPrice:  item.OriginalPrice.StringFixed(2),
			Price:          item.Price.StringFixed(2),
			DiscountAmount: item.DiscountAmount.StringFixed(2),
			Total:          item.Total.StringFixed(2),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := r.tmpl.Execute(f, view); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Invoice {{.ID}}</title></head>
<body>
<h1>Invoice #{{.ID}}</h1>
<p>Order date: {{.OrderDate}}</p>
<p>Status: {{.Status}}</p>
{{if .Recipient}}<p>Deliver to: {{.Recipient}}</p>{{end}}
<table border="1" cellpadding="4">
<tr><th>Product</th><th>Qty</th><th>Original</th><th>Price</th><th>Discount</th><th>Total</th></tr>
{{range .Lines}}
<tr>
<td>{{.ProductName}}</td>
<td>{{.Quantity}}</td>
<td>{{.OriginalPrice}}</td>
<td>{{.Price}}</td>
<td>{{.DiscountAmount}}</td>
<td>{{.Total}}</td>
</tr>
{{end}}
</table>
<p>Subtotal: {{.SubTotal}}</p>
{{if .HasDiscount}}<p>Discount: -{{.DiscountAmount}}</p>{{end}}
<p>VAT (15% included): {{.VatAmount}}</p>
<p>Delivery fee: {{.DeliveryFee}}</p>
<p><strong>Final amount: {{.FinalAmount}}</strong></p>
<p>&copy; {{.Year}}</p>
</body>
</html>
`
