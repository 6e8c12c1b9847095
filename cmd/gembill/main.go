package main

import (
	"github.com/smallbiznis/gembill/internal/clock"
	"github.com/smallbiznis/gembill/internal/config"
	"github.com/smallbiznis/gembill/internal/observability"
	"github.com/smallbiznis/gembill/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		server.Module,
	)
	app.Run()
}
