package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/domain"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/repos"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/validate"
)

const saleDateLayout = "2006-01-02 15:04:05"

// invoiceAttempts bounds the re-mint loop when a generated invoice number
// collides with the unique index.
const invoiceAttempts = 3

// SaleInput is the candidate sale supplied by checkout, the manual form,
// or one normalized import row. Nil TaxAmount/TotalAmount means "compute
// for me"; explicit values are trusted and never recomputed.
type SaleInput struct {
	VehicleID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	SalePrice     decimal.Decimal
	TaxAmount     *decimal.Decimal
	TotalAmount   *decimal.Decimal
	PaymentMethod string
	Status        string
	Notes         string
	SaleDate      string // optional "YYYY-MM-DD HH:MM:SS"; defaults to now
}

// SaleUpdate carries only the fields present in a partial update.
type SaleUpdate struct {
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	SalePrice     *decimal.Decimal
	TaxAmount     *decimal.Decimal
	TotalAmount   *decimal.Decimal
	PaymentMethod *string
	Status        *string
	Notes         *string
	SaleDate      *string
}

type SaleService struct {
	DB       *sqlx.DB
	Vehicles *repos.VehicleRepo
	Sales    *repos.SaleRepo
	TaxRate  decimal.Decimal
}

func NewSaleService(db *sqlx.DB, vehicles *repos.VehicleRepo, sales *repos.SaleRepo, taxRate decimal.Decimal) *SaleService {
	if taxRate.Sign() <= 0 {
		taxRate = DefaultTaxRate
	}
	return &SaleService{DB: db, Vehicles: vehicles, Sales: sales, TaxRate: taxRate}
}

// Create records a manually entered or imported sale.
func (s *SaleService) Create(p domain.Principal, in SaleInput) (domain.Sale, error) {
	if !p.Caps.CreateSale {
		return domain.Sale{}, fmt.Errorf("%w: missing canCreateSale", ErrUnauthorized)
	}
	return s.create(p, in)
}

// Checkout is the buyer-facing path: the principal buys for themselves,
// so customer identity comes from the session, never the request body.
func (s *SaleService) Checkout(p domain.Principal, vehicleID, paymentMethod, notes string) (domain.Sale, error) {
	if !p.Caps.Checkout {
		return domain.Sale{}, fmt.Errorf("%w: missing checkout capability", ErrUnauthorized)
	}
	v, err := s.Vehicles.Get(vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleID)
		}
		return domain.Sale{}, err
	}
	return s.create(p, SaleInput{
		VehicleID:     v.ID,
		CustomerName:  p.Name,
		CustomerEmail: p.Email,
		SalePrice:     v.Price,
		PaymentMethod: paymentMethod,
		Notes:         notes,
	})
}

func (s *SaleService) create(p domain.Principal, in SaleInput) (domain.Sale, error) {
	if err := validateInput(&in); err != nil {
		return domain.Sale{}, err
	}

	v, err := s.Vehicles.Get(in.VehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, in.VehicleID)
		}
		return domain.Sale{}, err
	}
	if v.Status != domain.VehicleAvailable {
		return domain.Sale{}, fmt.Errorf("%w: vehicle %s is %s", ErrVehicleNotAvailable, v.ID, v.Status)
	}

	tax := CalculateTax(in.SalePrice, s.TaxRate)
	if in.TaxAmount != nil {
		tax = *in.TaxAmount
	}
	total := CalculateTotal(in.SalePrice, tax)
	if in.TotalAmount != nil {
		total = *in.TotalAmount
	}

	sale := domain.Sale{
		ID:            uuid.NewString(),
		VehicleID:     v.ID,
		UserID:        p.UserID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		SalePrice:     in.SalePrice,
		TaxAmount:     tax,
		TotalAmount:   total,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		Notes:         in.Notes,
		SaleDate:      in.SaleDate,
	}

	// The insert and the status flip commit or roll back together; a
	// racing sale on the same vehicle loses at MarkSoldTx and sees
	// NotAvailable, never a double sale.
	for attempt := 0; attempt < invoiceAttempts; attempt++ {
		sale.InvoiceNumber = GenerateInvoiceNumber()

		tx, err := s.DB.Beginx()
		if err != nil {
			return domain.Sale{}, err
		}
		if err := s.Sales.InsertTx(tx, sale); err != nil {
			_ = tx.Rollback()
			if isInvoiceCollision(err) && attempt < invoiceAttempts-1 {
				continue
			}
			return domain.Sale{}, err
		}
		sold, err := s.Vehicles.MarkSoldTx(tx, v.ID)
		if err != nil {
			_ = tx.Rollback()
			return domain.Sale{}, err
		}
		if !sold {
			_ = tx.Rollback()
			return domain.Sale{}, fmt.Errorf("%w: vehicle %s was sold concurrently", ErrVehicleNotAvailable, v.ID)
		}
		if err := tx.Commit(); err != nil {
			return domain.Sale{}, err
		}
		return s.Sales.Get(sale.ID)
	}
	return domain.Sale{}, fmt.Errorf("could not allocate a unique invoice number after %d attempts", invoiceAttempts)
}

// Update applies a partial edit. An explicitly supplied total always wins;
// otherwise a price or tax change recomputes the total from the post-update
// values.
func (s *SaleService) Update(p domain.Principal, id string, upd SaleUpdate) (domain.Sale, error) {
	if !p.Caps.EditSale {
		return domain.Sale{}, fmt.Errorf("%w: missing canEditSale", ErrUnauthorized)
	}
	if (upd.SalePrice != nil || upd.TaxAmount != nil || upd.TotalAmount != nil) && !p.Caps.EditFinancials {
		return domain.Sale{}, fmt.Errorf("%w: financial fields require full access", ErrUnauthorized)
	}

	sale, err := s.Sales.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
		}
		return domain.Sale{}, err
	}

	if upd.CustomerName != nil {
		name, ok := validate.Name(*upd.CustomerName)
		if !ok {
			return domain.Sale{}, fmt.Errorf("%w: customer name", ErrValidation)
		}
		sale.CustomerName = name
	}
	if upd.CustomerEmail != nil {
		email, ok := validate.Email(*upd.CustomerEmail)
		if !ok {
			return domain.Sale{}, fmt.Errorf("%w: customer email", ErrValidation)
		}
		sale.CustomerEmail = email
	}
	if upd.CustomerPhone != nil {
		phone, ok := validate.Phone(*upd.CustomerPhone)
		if !ok {
			return domain.Sale{}, fmt.Errorf("%w: customer phone", ErrValidation)
		}
		sale.CustomerPhone = phone
	}
	if upd.SalePrice != nil {
		if upd.SalePrice.Sign() <= 0 {
			return domain.Sale{}, fmt.Errorf("%w: sale price must be positive", ErrValidation)
		}
		sale.SalePrice = *upd.SalePrice
	}
	if upd.TaxAmount != nil {
		if upd.TaxAmount.Sign() < 0 {
			return domain.Sale{}, fmt.Errorf("%w: tax amount must not be negative", ErrValidation)
		}
		sale.TaxAmount = *upd.TaxAmount
	}
	if upd.PaymentMethod != nil {
		if !domain.ValidPaymentMethod(*upd.PaymentMethod) {
			return domain.Sale{}, fmt.Errorf("%w: payment method %q", ErrValidation, *upd.PaymentMethod)
		}
		sale.PaymentMethod = *upd.PaymentMethod
	}
	if upd.Status != nil {
		if !domain.ValidSaleStatus(*upd.Status) {
			return domain.Sale{}, fmt.Errorf("%w: status %q", ErrValidation, *upd.Status)
		}
		sale.Status = *upd.Status
	}
	if upd.Notes != nil {
		sale.Notes = *upd.Notes
	}
	if upd.SaleDate != nil {
		sale.SaleDate = *upd.SaleDate
	}

	switch {
	case upd.TotalAmount != nil:
		if upd.TotalAmount.Sign() <= 0 {
			return domain.Sale{}, fmt.Errorf("%w: total amount must be positive", ErrValidation)
		}
		sale.TotalAmount = *upd.TotalAmount
	case upd.SalePrice != nil || upd.TaxAmount != nil:
		sale.TotalAmount = CalculateTotal(sale.SalePrice, sale.TaxAmount)
	}

	if err := s.Sales.Update(sale); err != nil {
		return domain.Sale{}, err
	}
	return s.Sales.Get(id)
}

// Delete removes the sale and reconciles the vehicle: when no other sale
// still claims it, a sold vehicle goes back to available. A vehicle moved
// to maintenance in the meantime is left alone.
func (s *SaleService) Delete(p domain.Principal, id string) error {
	if !p.Caps.DeleteSale {
		return fmt.Errorf("%w: missing canDeleteSale", ErrUnauthorized)
	}
	sale, err := s.Sales.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrSaleNotFound, id)
		}
		return err
	}
	deleted, err := s.Sales.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}

	remaining, err := s.Sales.CountByVehicle(sale.VehicleID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.Vehicles.ReleaseIfSold(sale.VehicleID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SaleService) Get(id string) (domain.Sale, error) {
	sale, err := s.Sales.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
		}
		return domain.Sale{}, err
	}
	return sale, nil
}

func (s *SaleService) List(limit int) ([]domain.Sale, error) {
	return s.Sales.ListLatest(limit)
}

func (s *SaleService) ListByVehicle(vehicleID string) ([]domain.Sale, error) {
	return s.Sales.ListByVehicle(vehicleID)
}

func validateInput(in *SaleInput) error {
	if _, ok := validate.ID(in.VehicleID); !ok {
		return fmt.Errorf("%w: vehicle id", ErrValidation)
	}
	name, ok := validate.Name(in.CustomerName)
	if !ok {
		return fmt.Errorf("%w: customer name", ErrValidation)
	}
	in.CustomerName = name
	email, ok := validate.Email(in.CustomerEmail)
	if !ok {
		return fmt.Errorf("%w: customer email", ErrValidation)
	}
	in.CustomerEmail = email
	phone, ok := validate.Phone(in.CustomerPhone)
	if !ok {
		return fmt.Errorf("%w: customer phone", ErrValidation)
	}
	in.CustomerPhone = phone
	if in.SalePrice.Sign() <= 0 {
		return fmt.Errorf("%w: sale price must be positive", ErrValidation)
	}
	if in.TaxAmount != nil && in.TaxAmount.Sign() < 0 {
		return fmt.Errorf("%w: tax amount must not be negative", ErrValidation)
	}
	if in.TotalAmount != nil && in.TotalAmount.Sign() <= 0 {
		return fmt.Errorf("%w: total amount must be positive", ErrValidation)
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return fmt.Errorf("%w: payment method %q", ErrValidation, in.PaymentMethod)
	}
	if in.Status == "" {
		in.Status = domain.SaleCompleted
	} else if !domain.ValidSaleStatus(in.Status) {
		return fmt.Errorf("%w: status %q", ErrValidation, in.Status)
	}
	if in.SaleDate == "" {
		in.SaleDate = time.Now().UTC().Format(saleDateLayout)
	}
	return nil
}

func isInvoiceCollision(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE") && strings.Contains(msg, "invoice_number")
}
