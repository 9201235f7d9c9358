package entity

import "github.com/sangkips/pos-api/internal/domain/pos"

// ReceiptHeader holds the store/business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity; it is composed from a stored sale at print time.
type Receipt struct {
	Header  ReceiptHeader   `json:"header"`
	Date    string          `json:"date"`
	Cashier string          `json:"cashier,omitempty"`
	Rows    pos.ReceiptRows `json:"rows"`
}
