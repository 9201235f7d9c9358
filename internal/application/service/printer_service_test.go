package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/pos-api/internal/domain/entity"
	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/pkg/printer"
)

func newPrinterService(sales *SaleService, p printer.Printer) *PrinterService {
	return NewPrinterService(p, sales, PrinterOptions{
		Type:         "network",
		Width:        32,
		Currency:     "LKR",
		DiscountMode: enum.DiscountModePercentage,
		Header:       entity.ReceiptHeader{StoreName: "Lanka Mart", Address: "12 Galle Rd", Phone: "011 234 5678"},
	}, zerolog.Nop())
}

func TestTestPrintUsesPricingRules(t *testing.T) {
	mem := printer.NewMemoryPrinter()
	svc := newPrinterService(nil, mem)

	receipt, err := svc.TestPrint(context.Background(), "Nimal")
	require.NoError(t, err)
	assert.Equal(t, "PRINTER TEST", receipt.Header.StoreName)
	assert.Equal(t, "Nimal", receipt.Cashier)

	grand, ok := receipt.Rows.Row(pos.RowGrandTotal)
	require.True(t, ok)
	assert.Equal(t, "LKR 19.00", grand.Value)
	change, ok := receipt.Rows.Row(pos.RowBalance)
	require.True(t, ok)
	assert.Equal(t, "LKR 1.00", change.Value)

	require.Len(t, mem.Jobs(), 1)
	out := string(mem.Jobs()[0])
	assert.Contains(t, out, "TEST-001")
	assert.Contains(t, out, "Grand Total:")
}

func TestTestPrintFollowsConfiguredDiscountMode(t *testing.T) {
	mem := printer.NewMemoryPrinter()
	svc := NewPrinterService(mem, nil, PrinterOptions{
		Type:         "network",
		Width:        32,
		Currency:     "LKR",
		DiscountMode: enum.DiscountModeAbsolute,
	}, zerolog.Nop())

	receipt, err := svc.TestPrint(context.Background(), "Nimal")
	require.NoError(t, err)

	// an absolute discount of 10 on a 5.00 item is clamped to the price
	grand, ok := receipt.Rows.Row(pos.RowGrandTotal)
	require.True(t, ok)
	assert.Equal(t, "LKR 10.00", grand.Value)
	change, ok := receipt.Rows.Row(pos.RowBalance)
	require.True(t, ok)
	assert.Equal(t, "LKR 10.00", change.Value)
}

func TestPrintSaleReceipt(t *testing.T) {
	tl := newTill(t)
	cashier := uuid.New()
	sale := tl.ringUp(t, cashier)

	mem := printer.NewMemoryPrinter()
	svc := newPrinterService(tl.sales, mem)

	receipt, err := svc.PrintSaleReceipt(context.Background(), sale.Sale.SaleID, &cashier, "", "Nimal")
	require.NoError(t, err)
	assert.Equal(t, "Lanka Mart", receipt.Header.StoreName)
	assert.Equal(t, sale.Sale.InvoiceNo, receipt.Rows.InvoiceNo)

	out := string(mem.Jobs()[0])
	assert.Contains(t, out, "Lanka Mart")
	assert.Contains(t, out, "12 Galle Rd")
	assert.Contains(t, out, sale.Sale.InvoiceNo)
	assert.Contains(t, out, "LKR 815.00")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 32+8, "line too wide: %q", line)
	}
}

func TestPrintSaleReceiptPrinterFailure(t *testing.T) {
	tl := newTill(t)
	cashier := uuid.New()
	sale := tl.ringUp(t, cashier)

	mem := printer.NewMemoryPrinter()
	mem.FailWith(errors.New("paper out"))
	svc := newPrinterService(tl.sales, mem)

	receipt, err := svc.PrintSaleReceipt(context.Background(), sale.Sale.SaleID, &cashier, "", "")
	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, sale.Sale.InvoiceNo, receipt.Rows.InvoiceNo)

	_, err = svc.PrintSaleReceipt(context.Background(), uuid.New(), nil, "", "")
	requireAppError(t, err, http.StatusNotFound)
}

func TestPrinterStatus(t *testing.T) {
	status := newPrinterService(nil, printer.NewMemoryPrinter()).GetStatus()
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, 32, status.Width)

	none := NewPrinterService(printer.NewNullPrinter(), nil, PrinterOptions{Type: "none"}, zerolog.Nop()).GetStatus()
	assert.False(t, none.Configured)
	assert.False(t, none.Connected)
}
