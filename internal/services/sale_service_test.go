package services_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/domain"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/repos"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
)

// memdb opens the real schema with its demo seeds (veh-001..veh-004) in
// memory. Single connection so every query sees the same database.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	return db
}

func newLedger(db *sqlx.DB) *services.SaleService {
	return services.NewSaleService(db, repos.NewVehicleRepo(db), repos.NewSaleRepo(db), decimal.Decimal{})
}

func admin() domain.Principal {
	u := domain.User{ID: "u-admin", Email: "admin@autolote.test", Name: "Administrador", Role: domain.RoleAdmin}
	return u.ToPrincipal()
}

func entrepreneur() domain.Principal {
	u := domain.User{ID: "u-emprendedor", Email: "ventas@autolote.test", Name: "Emprendedor", Role: domain.RoleEntrepreneur}
	return u.ToPrincipal()
}

func buyer() domain.Principal {
	u := domain.User{ID: "u-comprador", Email: "comprador@autolote.test", Name: "Comprador", Role: domain.RoleBuyer}
	return u.ToPrincipal()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func validInput(vehicleID string) services.SaleInput {
	return services.SaleInput{
		VehicleID:     vehicleID,
		CustomerName:  "Juan Pérez",
		CustomerEmail: "juan@example.com",
		SalePrice:     dec("10000"),
		PaymentMethod: domain.PayCash,
	}
}

func TestCreateSaleComputesTaxAndTotal(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	sale, err := svc.Create(admin(), validInput("veh-001"))
	if err != nil {
		t.Fatal(err)
	}
	if !sale.TaxAmount.Equal(dec("1600")) {
		t.Fatalf("want tax 1600, got %s", sale.TaxAmount)
	}
	if !sale.TotalAmount.Equal(dec("11600")) {
		t.Fatalf("want total 11600, got %s", sale.TotalAmount)
	}
	if sale.Status != domain.SaleCompleted {
		t.Fatalf("want status completed, got %s", sale.Status)
	}
	if !reInvoice.MatchString(sale.InvoiceNumber) {
		t.Fatalf("bad invoice number %q", sale.InvoiceNumber)
	}
	if sale.SaleDate == "" {
		t.Fatal("sale date not defaulted")
	}

	v, err := repos.NewVehicleRepo(db).Get("veh-001")
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != domain.VehicleSold {
		t.Fatalf("vehicle should be sold, got %s", v.Status)
	}
}

func TestCreateSaleExplicitAmountsPreserved(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	in := validInput("veh-001")
	in.SalePrice = dec("20000")
	in.TaxAmount = decPtr("3000")
	in.TotalAmount = decPtr("23000")

	sale, err := svc.Create(admin(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !sale.TaxAmount.Equal(dec("3000")) || !sale.TotalAmount.Equal(dec("23000")) {
		t.Fatalf("explicit amounts recomputed: tax=%s total=%s", sale.TaxAmount, sale.TotalAmount)
	}
}

func TestCreateSaleNoDoubleSale(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	if _, err := svc.Create(admin(), validInput("veh-001")); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(admin(), validInput("veh-001"))
	if !errors.Is(err, services.ErrVehicleNotAvailable) {
		t.Fatalf("want ErrVehicleNotAvailable, got %v", err)
	}
}

func TestCreateSaleVehicleNotFound(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	_, err := svc.Create(admin(), validInput("veh-999"))
	if !errors.Is(err, services.ErrVehicleNotFound) {
		t.Fatalf("want ErrVehicleNotFound, got %v", err)
	}
}

func TestCreateSaleVehicleInMaintenance(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	// veh-004 is seeded in maintenance
	_, err := svc.Create(admin(), validInput("veh-004"))
	if !errors.Is(err, services.ErrVehicleNotAvailable) {
		t.Fatalf("want ErrVehicleNotAvailable, got %v", err)
	}
}

func TestCreateSaleValidation(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	bad := validInput("veh-001")
	bad.CustomerEmail = "not-an-email"
	if _, err := svc.Create(admin(), bad); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad email: want ErrValidation, got %v", err)
	}

	bad = validInput("veh-001")
	bad.SalePrice = dec("0")
	if _, err := svc.Create(admin(), bad); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("zero price: want ErrValidation, got %v", err)
	}

	bad = validInput("veh-001")
	bad.PaymentMethod = "bitcoin"
	if _, err := svc.Create(admin(), bad); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad payment: want ErrValidation, got %v", err)
	}

	// nothing persisted, vehicle untouched
	v, _ := repos.NewVehicleRepo(db).Get("veh-001")
	if v.Status != domain.VehicleAvailable {
		t.Fatalf("vehicle should still be available, got %s", v.Status)
	}
}

func TestCreateSaleUnauthorized(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	if _, err := svc.Create(buyer(), validInput("veh-001")); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestCheckoutUsesPrincipalIdentity(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)
	p := buyer()

	sale, err := svc.Checkout(p, "veh-002", domain.PayFinancing, "")
	if err != nil {
		t.Fatal(err)
	}
	if sale.CustomerName != p.Name || sale.CustomerEmail != p.Email {
		t.Fatalf("checkout should use session identity, got %s <%s>", sale.CustomerName, sale.CustomerEmail)
	}
	if !sale.SalePrice.Equal(dec("265000")) {
		t.Fatalf("checkout should use listed price, got %s", sale.SalePrice)
	}
	if sale.UserID != p.UserID {
		t.Fatalf("sale not attributed to buyer, got %q", sale.UserID)
	}
}

func TestUpdateSaleRecomputesTotal(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	sale, err := svc.Create(admin(), validInput("veh-001"))
	if err != nil {
		t.Fatal(err)
	}

	// price change without explicit total: total follows price+tax
	upd := services.SaleUpdate{SalePrice: decPtr("12000")}
	got, err := svc.Update(admin(), sale.ID, upd)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TotalAmount.Equal(dec("13600")) { // 12000 + original tax 1600
		t.Fatalf("want total 13600, got %s", got.TotalAmount)
	}

	// explicit total wins even alongside a price change
	upd = services.SaleUpdate{SalePrice: decPtr("15000"), TotalAmount: decPtr("15500")}
	got, err = svc.Update(admin(), sale.ID, upd)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TotalAmount.Equal(dec("15500")) {
		t.Fatalf("explicit total discarded: got %s", got.TotalAmount)
	}
}

func TestUpdateSalePermissions(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	sale, err := svc.Create(admin(), validInput("veh-001"))
	if err != nil {
		t.Fatal(err)
	}

	// entrepreneur may edit contact fields
	name := "María López"
	if _, err := svc.Update(entrepreneur(), sale.ID, services.SaleUpdate{CustomerName: &name}); err != nil {
		t.Fatalf("entrepreneur contact edit should pass: %v", err)
	}

	// but not financials
	_, err = svc.Update(entrepreneur(), sale.ID, services.SaleUpdate{SalePrice: decPtr("1")})
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for financial edit, got %v", err)
	}
}

func TestUpdateSaleNotFound(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	_, err := svc.Update(admin(), "nope", services.SaleUpdate{})
	if !errors.Is(err, services.ErrSaleNotFound) {
		t.Fatalf("want ErrSaleNotFound, got %v", err)
	}
}

func TestDeleteSaleRestoresAvailability(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	sale, err := svc.Create(admin(), validInput("veh-001"))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(admin(), sale.ID); err != nil {
		t.Fatal(err)
	}

	v, _ := repos.NewVehicleRepo(db).Get("veh-001")
	if v.Status != domain.VehicleAvailable {
		t.Fatalf("want available after delete, got %s", v.Status)
	}
}

func TestDeleteSaleKeepsVehicleWhenAnotherSaleRemains(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)
	saleRepo := repos.NewSaleRepo(db)

	sale, err := svc.Create(admin(), validInput("veh-001"))
	if err != nil {
		t.Fatal(err)
	}

	// data anomaly: a second sale claiming the same vehicle, written
	// directly past the availability gate
	tx := db.MustBegin()
	if err := saleRepo.InsertTx(tx, domain.Sale{
		ID: uuid.NewString(), InvoiceNumber: "INV-19990101-0001", VehicleID: "veh-001",
		CustomerName: "Otro Cliente", CustomerEmail: "otro@example.com",
		SalePrice: dec("9000"), TaxAmount: dec("1440"), TotalAmount: dec("10440"),
		PaymentMethod: domain.PayCredit, Status: domain.SaleCompleted,
		SaleDate: "2024-01-01 00:00:00",
	}); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(admin(), sale.ID); err != nil {
		t.Fatal(err)
	}
	v, _ := repos.NewVehicleRepo(db).Get("veh-001")
	if v.Status != domain.VehicleSold {
		t.Fatalf("vehicle still claimed, want sold, got %s", v.Status)
	}
}

func TestDeleteSaleRespectsMaintenance(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	sale, err := svc.Create(admin(), validInput("veh-001"))
	if err != nil {
		t.Fatal(err)
	}
	// vehicle manually parked after the sale
	if _, err := db.Exec(`UPDATE vehicles SET status='maintenance' WHERE id='veh-001'`); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(admin(), sale.ID); err != nil {
		t.Fatal(err)
	}
	v, _ := repos.NewVehicleRepo(db).Get("veh-001")
	if v.Status != domain.VehicleMaintenance {
		t.Fatalf("manual maintenance overridden, got %s", v.Status)
	}
}

func TestDeleteSalePermissions(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	sale, err := svc.Create(admin(), validInput("veh-001"))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(entrepreneur(), sale.ID); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if err := svc.Delete(admin(), "missing"); !errors.Is(err, services.ErrSaleNotFound) {
		t.Fatalf("want ErrSaleNotFound, got %v", err)
	}
}

func TestListByVehicle(t *testing.T) {
	db := memdb(t)
	svc := newLedger(db)

	sale, err := svc.Create(admin(), validInput("veh-003"))
	if err != nil {
		t.Fatal(err)
	}
	sales, err := svc.ListByVehicle("veh-003")
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 || sales[0].ID != sale.ID {
		t.Fatalf("want the one sale for veh-003, got %+v", sales)
	}
}
