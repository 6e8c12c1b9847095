package main

import (
	"github.com/smallbiznis/gembill/internal/clock"
	"github.com/smallbiznis/gembill/internal/config"
	"github.com/smallbiznis/gembill/internal/invoicestore"
	"github.com/smallbiznis/gembill/internal/migration"
	"github.com/smallbiznis/gembill/internal/observability"
	"github.com/smallbiznis/gembill/pkg/db"
	"go.uber.org/fx"
)

// The invoice store is the self-hosted implementation of the /invoices REST
// resource that gembill talks to.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		db.Module,
		migration.Module,
		invoicestore.Module,
	)
	app.Run()
}
