// Package invoicestore is a self-hostable implementation of the invoice REST
// backend the client talks to. It persists invoices with gorm.
package invoicestore

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Invoice struct {
	ID              snowflake.ID    `gorm:"primaryKey;autoIncrement:false"`
	InvoiceNumber   string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_invoices_invoice_number"`
	Date            datatypes.Date  `gorm:"not null"`
	Terms           string          `gorm:"type:varchar(64);not null;default:''"`
	CustomerName    string          `gorm:"type:text;not null"`
	CustomerAddress string          `gorm:"type:text;not null"`
	CustomerCity    string          `gorm:"type:text;not null"`
	CustomerPhone   string          `gorm:"type:text;not null;default:''"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Shipping        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Other           decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

func (Invoice) TableName() string { return "invoices" }

type InvoiceItem struct {
	ID           snowflake.ID    `gorm:"primaryKey;autoIncrement:false"`
	InvoiceID    snowflake.ID    `gorm:"not null;index:idx_invoice_items_invoice_id"`
	Position     int             `gorm:"not null"`
	StockID      string          `gorm:"type:text;not null;default:''"`
	Description  string          `gorm:"type:text;not null"`
	Pieces       int64           `gorm:"not null"`
	Weight       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PricePerUnit decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Total        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// Models lists the tables owned by the backend, parents first.
func Models() []any {
	return []any{&Invoice{}, &InvoiceItem{}}
}
