package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sangkips/pos-api/internal/domain/entity"
	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	sales       *SaleService
	printerType string
	policy      pos.DiscountPolicy
	header      entity.ReceiptHeader
	width       int
	currency    string
	log         zerolog.Logger
}

// PrinterOptions configures the receipt layout. DiscountMode should match the
// till's so a test print prices lines the way real sales do.
type PrinterOptions struct {
	Type         string
	Width        int
	Currency     string
	DiscountMode enum.DiscountMode
	Header       entity.ReceiptHeader
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, sales *SaleService, opts PrinterOptions, log zerolog.Logger) *PrinterService {
	return &PrinterService{
		printer:     p,
		sales:       sales,
		printerType: opts.Type,
		policy:      pos.NewDiscountPolicy(opts.DiscountMode),
		header:      opts.Header,
		width:       opts.Width,
		currency:    opts.Currency,
		log:         log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		Width:      s.width,
	}
}

// TestPrint prints a sample receipt priced through the same cart rules as a
// real sale. The receipt is returned even when printing fails.
func (s *PrinterService) TestPrint(ctx context.Context, cashier string) (*entity.Receipt, error) {
	state := pos.NewOrderState(s.policy, uuid.Nil)
	state.Store().AddOrMerge(pos.Product{ID: uuid.New(), Name: "Test Item 1", UnitPrice: decimal.NewFromInt(10)}, 1, decimal.Zero)
	state.Store().AddOrMerge(pos.Product{ID: uuid.New(), Name: "Test Item 2", UnitPrice: decimal.NewFromInt(5)}, 2, decimal.NewFromInt(10))
	state.SetPaymentAmount(decimal.NewFromInt(20))

	now := time.Now()
	sale := pos.FromPersistedResponse(pos.PersistedSale{InvoiceNo: "TEST-001", SaleDate: now}, state, state.Totals())

	receipt := s.buildReceipt(sale, s.currency, cashier)
	receipt.Header.StoreName = "PRINTER TEST"

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintSaleReceipt loads a stored sale and prints its receipt. When the
// printer fails the receipt is still returned alongside the error.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID, owner *uuid.UUID, currency, cashier string) (*entity.Receipt, error) {
	stored, err := s.sales.GetReceipt(ctx, saleID, owner, currency)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header:  s.header,
		Date:    stored.Sale.SaleDate.Format("2006-01-02 15:04"),
		Cashier: cashier,
		Rows:    stored.Rows,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		s.log.Error().Err(err).Str("sale_id", saleID.String()).Msg("printer error")
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

func (s *PrinterService) buildReceipt(sale pos.ReceiptSale, currency, cashier string) *entity.Receipt {
	return &entity.Receipt{
		Header:  s.header,
		Date:    sale.SaleDate.Format("2006-01-02 15:04"),
		Cashier: cashier,
		Rows:    pos.Project(sale, currency),
	}
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Invoice:", r.Rows.InvoiceNo).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Rows.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.Rows.PaymentMethod)
	}

	doc.Separator('-')

	for _, line := range r.Rows.Lines {
		doc.ItemLine(line.Quantity, line.Name, line.LineTotal)
		if line.Quantity > 1 {
			doc.TextF("  @ %s each", line.UnitPrice)
		}
		if line.Discount != "" {
			doc.TextF("  discount %s", line.Discount)
		}
	}

	doc.Separator('-')

	for _, row := range r.Rows.Summary {
		if row.Key == pos.RowGrandTotal {
			doc.SetBold(true).
				KeyValue(row.Label+":", row.Value).
				SetBold(false)
			continue
		}
		doc.KeyValue(row.Label+":", row.Value)
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you, come again!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
