package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/domain"
)

type VehicleRepo struct{ db *sqlx.DB }

func NewVehicleRepo(db *sqlx.DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleCols = `id, vin, make, model, year, price, status, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *VehicleRepo) Get(id string) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := r.db.Get(&v, `SELECT `+vehicleCols+` FROM vehicles WHERE id = ?`, id)
	return v, err
}

// ListAll returns the full inventory; the bulk importer builds its VIN
// lookup map from this once per batch.
func (r *VehicleRepo) ListAll() ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := r.db.Select(&out, `SELECT `+vehicleCols+` FROM vehicles ORDER BY make, model`)
	return out, err
}

// MarkSoldTx flips an available vehicle to sold inside the caller's
// transaction. Returns sold=false when the vehicle was not available, so
// exactly one of two racing sales can win the row.
func (r *VehicleRepo) MarkSoldTx(tx *sqlx.Tx, id string) (bool, error) {
	res, err := tx.Exec(`
		UPDATE vehicles
		SET status = 'sold', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'available'
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseIfSold moves a sold vehicle back to available. A vehicle that was
// manually parked in maintenance (or reserved) stays as it is.
func (r *VehicleRepo) ReleaseIfSold(id string) error {
	_, err := r.db.Exec(`
		UPDATE vehicles
		SET status = 'available', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'sold'
	`, id)
	return err
}
