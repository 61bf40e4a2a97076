package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lkrpricing/collections"
	"lkrpricing/commands"
	"lkrpricing/config"
	"lkrpricing/handlers"
	"lkrpricing/metrics"
	"lkrpricing/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	metrics.Init()

	app := pocketbase.New()
	fx := services.NewFXClient(cfg)

	app.RootCmd.AddCommand(commands.NewExportCommand(app, cfg))
	app.RootCmd.AddCommand(commands.NewSeedCommand(app, cfg))

	// Create collections and link legacy rows on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app); err != nil {
			return err
		}
		if err := collections.MigrateLegacyShopNames(app); err != nil {
			app.Logger().Warn("legacy shop migration failed", "error", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.RequestIDMiddleware())
		se.Router.BindFunc(handlers.MetricsMiddleware())
		se.Router.BindFunc(handlers.SelectedShopMiddleware(app))

		// ── Shops ───────────────────────────────────────────────
		se.Router.GET("/api/shops", handlers.HandleShopList(app))
		se.Router.POST("/api/shops", handlers.HandleShopCreate(app))
		se.Router.DELETE("/api/shops", handlers.HandleShopDelete(app))

		// selection (literal paths win over {id})
		se.Router.GET("/api/shops/selected", handlers.HandleShopSelected())
		se.Router.DELETE("/api/shops/selected", handlers.HandleShopDeselect())
		se.Router.POST("/api/shops/{id}/select", handlers.HandleShopSelect(app))

		se.Router.GET("/api/shops/{id}", handlers.HandleShopView(app))
		se.Router.PUT("/api/shops/{id}", handlers.HandleShopUpdate(app))
		se.Router.DELETE("/api/shops/{id}", handlers.HandleShopDelete(app))

		// ── Calculations ────────────────────────────────────────
		se.Router.GET("/api/calculations", handlers.HandleCalculationList(app))
		se.Router.POST("/api/calculations", handlers.HandleCalculationCreate(app, cfg))
		se.Router.PUT("/api/calculations", handlers.HandleCalculationUpdate(app))
		se.Router.DELETE("/api/calculations", handlers.HandleCalculationDelete(app))
		se.Router.PATCH("/api/calculations", handlers.HandleExchangeRateLive(app, fx))
		se.Router.POST("/api/calculations/preview", handlers.HandleCalculationPreview(app, cfg))

		// Export / import
		se.Router.GET("/api/calculations/export/excel", handlers.HandleExportExcel(app, cfg))
		se.Router.GET("/api/calculations/export/pdf", handlers.HandleExportPDF(app, cfg))
		se.Router.POST("/api/calculations/import", handlers.HandleCalculationImport(app, cfg))
		se.Router.GET("/api/calculations/import/template", handlers.HandleImportTemplate())

		se.Router.GET("/api/calculations/{id}", handlers.HandleCalculationView(app))
		se.Router.PUT("/api/calculations/{id}", handlers.HandleCalculationUpdate(app))
		se.Router.DELETE("/api/calculations/{id}", handlers.HandleCalculationDelete(app))

		// ── Exchange rate ───────────────────────────────────────
		se.Router.GET("/api/exchange-rate", handlers.HandleExchangeRateGet(app, cfg))
		se.Router.PUT("/api/exchange-rate", handlers.HandleExchangeRateSet(app))
		se.Router.GET("/api/exchange-rate/history", handlers.HandleExchangeRateHistory(app))
		se.Router.GET("/api/exchange-rate/live", handlers.HandleExchangeRateLive(app, fx))

		// ── Summary / dashboard ─────────────────────────────────
		se.Router.GET("/api/summary", handlers.HandleSummary(app))
		se.Router.GET("/{$}", handlers.HandleDashboard(app, cfg))

		se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
