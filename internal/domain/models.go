package domain

import "github.com/shopspring/decimal"

// Vehicle statuses. A sale may only be created against an 'available'
// vehicle; a successful sale flips it to 'sold'.
const (
	VehicleAvailable   = "available"
	VehicleReserved    = "reserved"
	VehicleSold        = "sold"
	VehicleMaintenance = "maintenance"
)

// Sale statuses.
const (
	SaleCompleted = "completed"
	SalePending   = "pending"
	SaleCancelled = "cancelled"
	SaleRefunded  = "refunded"
)

// Payment methods.
const (
	PayCash      = "cash"
	PayCredit    = "credit"
	PayFinancing = "financing"
)

type Vehicle struct {
	ID        string          `db:"id" json:"id"`
	VIN       string          `db:"vin" json:"vin"`
	Make      string          `db:"make" json:"make"`
	Model     string          `db:"model" json:"model"`
	Year      int             `db:"year" json:"year"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Status    string          `db:"status" json:"status"`
	CreatedAt string          `db:"created_at" json:"created_at"`
	UpdatedAt string          `db:"updated_at" json:"updated_at,omitempty"`
}

type Sale struct {
	ID            string          `db:"id" json:"id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	VehicleID     string          `db:"vehicle_id" json:"vehicle_id"`
	UserID        string          `db:"user_id" json:"user_id"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	CustomerEmail string          `db:"customer_email" json:"customer_email"`
	CustomerPhone string          `db:"customer_phone" json:"customer_phone,omitempty"`
	SalePrice     decimal.Decimal `db:"sale_price" json:"sale_price"`
	TaxAmount     decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	Status        string          `db:"status" json:"status"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	SaleDate      string          `db:"sale_date" json:"sale_date"`
	CreatedAt     string          `db:"created_at" json:"created_at"`
	UpdatedAt     string          `db:"updated_at" json:"updated_at,omitempty"`
}

func ValidVehicleStatus(s string) bool {
	switch s {
	case VehicleAvailable, VehicleReserved, VehicleSold, VehicleMaintenance:
		return true
	}
	return false
}

func ValidSaleStatus(s string) bool {
	switch s {
	case SaleCompleted, SalePending, SaleCancelled, SaleRefunded:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	switch s {
	case PayCash, PayCredit, PayFinancing:
		return true
	}
	return false
}
