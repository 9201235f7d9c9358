package pos

import (
	"github.com/sangkips/pos-api/pkg/money"
)

// Summary row keys, in display order.
const (
	RowOriginalTotal           = "original_total"
	RowItemDiscounts           = "item_discounts"
	RowSubtotal                = "subtotal"
	RowOrderDiscountPercentage = "order_discount_percentage"
	RowOrderDiscount           = "order_discount"
	RowGrandTotal              = "grand_total"
	RowPaymentAmount           = "payment_amount"
	RowBalance                 = "balance"
)

type ReceiptLineRow struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	Discount  string `json:"discount,omitempty"`
}

type ReceiptSummaryRow struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReceiptRows is a receipt ready for display or printing. All amounts are
// pre-formatted strings.
type ReceiptRows struct {
	InvoiceNo     string              `json:"invoice_no"`
	Currency      string              `json:"currency"`
	PaymentMethod string              `json:"payment_method"`
	Lines         []ReceiptLineRow    `json:"lines"`
	Summary       []ReceiptSummaryRow `json:"summary"`
}

// Row looks a summary row up by key.
func (r ReceiptRows) Row(key string) (ReceiptSummaryRow, bool) {
	for _, row := range r.Summary {
		if row.Key == key {
			return row, true
		}
	}
	return ReceiptSummaryRow{}, false
}

// Project turns a sale into display rows. It only formats; no figure is
// recomputed. The order discount rows appear only when a percentage was
// applied, and the payment rows only when a payment was recorded.
func Project(sale ReceiptSale, currencyCode string) ReceiptRows {
	rows := ReceiptRows{
		InvoiceNo:     sale.InvoiceNo,
		Currency:      currencyCode,
		PaymentMethod: sale.PaymentMethod.String(),
		Lines:         make([]ReceiptLineRow, 0, len(sale.Items)),
	}
	for _, it := range sale.Items {
		line := ReceiptLineRow{
			Name:      it.Name,
			UnitPrice: money.Format(it.UnitPrice, currencyCode),
			Quantity:  it.Quantity,
			LineTotal: money.Format(it.LineTotal, currencyCode),
		}
		if it.LineDiscount.IsPositive() {
			line.Discount = money.Format(it.LineDiscount, currencyCode)
		}
		rows.Lines = append(rows.Lines, line)
	}

	add := func(key, label, value string) {
		rows.Summary = append(rows.Summary, ReceiptSummaryRow{Key: key, Label: label, Value: value})
	}
	add(RowOriginalTotal, "Original Total", money.Format(sale.OriginalTotal, currencyCode))
	add(RowItemDiscounts, "Item Discounts", money.Format(sale.ItemDiscounts, currencyCode))
	add(RowSubtotal, "Sub Total", money.Format(sale.Subtotal, currencyCode))
	if sale.OrderDiscountPercentage.IsPositive() {
		add(RowOrderDiscountPercentage, "Order Discount %", sale.OrderDiscountPercentage.String()+"%")
		add(RowOrderDiscount, "Order Discount", money.Format(sale.OrderDiscount, currencyCode))
	}
	add(RowGrandTotal, "Grand Total", money.Format(sale.TotalAmount, currencyCode))
	if sale.PaymentAmount != nil {
		add(RowPaymentAmount, "Paid", money.Format(*sale.PaymentAmount, currencyCode))
		if sale.Balance != nil {
			label := "Change"
			if sale.Balance.IsNegative() {
				label = "Balance Due"
			}
			add(RowBalance, label, money.Format(*sale.Balance, currencyCode))
		}
	}
	return rows
}
