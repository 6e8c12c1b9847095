package invoicestore

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gembill/pkg/db"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Invoice, error)
	Get(ctx context.Context, id snowflake.ID) (*Invoice, error)
	Create(ctx context.Context, inv *Invoice) error
	Replace(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id snowflake.ID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func itemsInOrder(tx *gorm.DB) *gorm.DB {
	return tx.Order("position ASC")
}

// List returns invoices in insertion order.
func (r *repository) List(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", itemsInOrder).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", itemsInOrder).
		First(&inv, "id = ?", int64(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	err := r.db.WithContext(ctx).Create(inv).Error
	if db.IsDuplicateKeyErr(err) {
		return ErrDuplicateNumber
	}
	return err
}

// Replace overwrites every column of an existing invoice and swaps its items.
func (r *repository) Replace(ctx context.Context, inv *Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Invoice{}).
			Where("id = ?", int64(inv.ID)).
			Updates(map[string]any{
				"invoice_number":   inv.InvoiceNumber,
				"date":             inv.Date,
				"terms":            inv.Terms,
				"customer_name":    inv.CustomerName,
				"customer_address": inv.CustomerAddress,
				"customer_city":    inv.CustomerCity,
				"customer_phone":   inv.CustomerPhone,
				"subtotal":         inv.Subtotal,
				"shipping":         inv.Shipping,
				"other":            inv.Other,
				"total_amount":     inv.TotalAmount,
				"updated_at":       inv.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("invoice_id = ?", int64(inv.ID)).Delete(&InvoiceItem{}).Error; err != nil {
			return err
		}
		if len(inv.Items) == 0 {
			return nil
		}
		return tx.Create(&inv.Items).Error
	})
	if db.IsDuplicateKeyErr(err) {
		return ErrDuplicateNumber
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", int64(id)).Delete(&InvoiceItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", int64(id)).Delete(&Invoice{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
