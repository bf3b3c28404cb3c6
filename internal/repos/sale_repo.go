package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

const saleCols = `id, invoice_number, vehicle_id, COALESCE(user_id,'') AS user_id,
  customer_name, customer_email, customer_phone, sale_price, tax_amount, total_amount,
  payment_method, status, notes, sale_date, created_at, COALESCE(updated_at,'') AS updated_at`

// InsertTx writes the sale row inside the caller's transaction so it can
// commit or roll back together with the vehicle status flip.
func (r *SaleRepo) InsertTx(tx *sqlx.Tx, s domain.Sale) error {
	_, err := tx.Exec(`
	  INSERT INTO sales
	    (id, invoice_number, vehicle_id, user_id, customer_name, customer_email, customer_phone,
	     sale_price, tax_amount, total_amount, payment_method, status, notes, sale_date, created_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, s.ID, s.InvoiceNumber, s.VehicleID, s.UserID, s.CustomerName, s.CustomerEmail, s.CustomerPhone,
		s.SalePrice, s.TaxAmount, s.TotalAmount, s.PaymentMethod, s.Status, s.Notes, s.SaleDate)
	return err
}

func (r *SaleRepo) Get(id string) (domain.Sale, error) {
	var s domain.Sale
	err := r.db.Get(&s, `SELECT `+saleCols+` FROM sales WHERE id = ?`, id)
	return s, err
}

func (r *SaleRepo) ListByVehicle(vehicleID string) ([]domain.Sale, error) {
	var out []domain.Sale
	err := r.db.Select(&out, `
		SELECT `+saleCols+` FROM sales
		WHERE vehicle_id = ?
		ORDER BY datetime(created_at) DESC
	`, vehicleID)
	return out, err
}

// CountByVehicle tells the reconciliation step whether any sale still
// claims the vehicle after a delete.
func (r *SaleRepo) CountByVehicle(vehicleID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM sales WHERE vehicle_id = ?`, vehicleID)
	return n, err
}

func (r *SaleRepo) ListLatest(limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Sale
	err := r.db.Select(&out, `
		SELECT `+saleCols+` FROM sales
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// Update rewrites the mutable fields; the service resolves partial input
// against the stored row before calling this.
func (r *SaleRepo) Update(s domain.Sale) error {
	_, err := r.db.Exec(`
		UPDATE sales
		SET customer_name = ?, customer_email = ?, customer_phone = ?,
		    sale_price = ?, tax_amount = ?, total_amount = ?,
		    payment_method = ?, status = ?, notes = ?, sale_date = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, s.CustomerName, s.CustomerEmail, s.CustomerPhone,
		s.SalePrice, s.TaxAmount, s.TotalAmount,
		s.PaymentMethod, s.Status, s.Notes, s.SaleDate, s.ID)
	return err
}

func (r *SaleRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
