// Package view models which screen of the invoice tool is active and what it
// shows. State values are immutable; every transition returns a new State.
package view

import (
	"fmt"
	"time"

	"github.com/smallbiznis/gembill/internal/invoice/domain"
)

type Mode string

const (
	ModeListing    Mode = "listing"
	ModeEditing    Mode = "editing"
	ModePreviewing Mode = "previewing"
)

type State struct {
	mode    Mode
	invoice *domain.Invoice
	refresh int
}

// Initial is the listing screen.
func Initial() State {
	return State{mode: ModeListing}
}

func (s State) Mode() Mode { return s.mode }

// Invoice is the invoice being edited or previewed. It is nil while listing
// and while creating a new invoice.
func (s State) Invoice() *domain.Invoice { return s.invoice }

// Refresh increments every time a form is submitted so list views know to
// reload.
func (s State) Refresh() int { return s.refresh }

// CreateNew opens an empty form.
func (s State) CreateNew() State {
	return State{mode: ModeEditing, refresh: s.refresh}
}

func (s State) Edit(inv domain.Invoice) State {
	return State{mode: ModeEditing, invoice: &inv, refresh: s.refresh}
}

func (s State) Preview(inv domain.Invoice) State {
	return State{mode: ModePreviewing, invoice: &inv, refresh: s.refresh}
}

// Submitted returns to the list after a successful create or update.
func (s State) Submitted() State {
	return State{mode: ModeListing, refresh: s.refresh + 1}
}

// EditForm is the form shown in editing mode.
func (s State) EditForm(now time.Time) domain.FormData {
	if s.mode == ModeEditing && s.invoice != nil {
		return domain.FormFromInvoice(*s.invoice)
	}
	return domain.NewFormData(now)
}

func (s State) Title() string {
	switch s.mode {
	case ModeEditing:
		if s.invoice != nil {
			return fmt.Sprintf("Edit Invoice #%d", s.invoice.InvoiceNo)
		}
		return "Create New Invoice"
	case ModePreviewing:
		return "Preview"
	default:
		return "Invoices"
	}
}
