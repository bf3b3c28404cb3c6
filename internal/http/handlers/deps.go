package handlers

import (
	"github.com/jmoiron/sqlx"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/config"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/repos"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
)

type Deps struct {
	SaleHandler     *SaleHandler
	ImportHandler   *ImportHandler
	CheckoutHandler *CheckoutHandler
	VehicleHandler  *VehicleHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	vehicleRepo := repos.NewVehicleRepo(db)
	saleRepo := repos.NewSaleRepo(db)

	ledger := services.NewSaleService(db, vehicleRepo, saleRepo, cfg.TaxRate)
	importer := services.NewImportService(vehicleRepo, ledger)

	return &Deps{
		SaleHandler:     &SaleHandler{Ledger: ledger},
		ImportHandler:   &ImportHandler{Importer: importer},
		CheckoutHandler: &CheckoutHandler{Ledger: ledger},
		VehicleHandler:  &VehicleHandler{Vehicles: vehicleRepo},
	}
}
