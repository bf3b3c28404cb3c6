package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline inventory if DB is empty (idempotent; safe to run every start)
	if err := seedVehicles(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Vehicles
CREATE TABLE IF NOT EXISTS vehicles(
  id TEXT PRIMARY KEY,
  vin TEXT NOT NULL,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  year INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL CHECK (price >= 0),
  status TEXT NOT NULL DEFAULT 'available'
    CHECK (status IN ('available','reserved','sold','maintenance')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_vin ON vehicles(UPPER(vin));
CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles(status);

-- Sales
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  invoice_number TEXT NOT NULL,
  vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE RESTRICT,
  user_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT NOT NULL DEFAULT '',
  sale_price NUMERIC NOT NULL CHECK (sale_price > 0),
  tax_amount NUMERIC NOT NULL DEFAULT 0 CHECK (tax_amount >= 0),
  total_amount NUMERIC NOT NULL CHECK (total_amount > 0),
  payment_method TEXT NOT NULL CHECK (payment_method IN ('cash','credit','financing')),
  status TEXT NOT NULL DEFAULT 'completed'
    CHECK (status IN ('completed','pending','cancelled','refunded')),
  notes TEXT NOT NULL DEFAULT '',
  sale_date TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_invoice ON sales(invoice_number);
CREATE INDEX IF NOT EXISTS idx_sales_vehicle ON sales(vehicle_id);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('ADMIN','ENTREPRENEUR','BUYER')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedVehicles(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM vehicles`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo vehicles")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO vehicles(id,vin,make,model,year,price,status) VALUES
	  ('veh-001','1HGCM82633A004352','Honda','Accord',2019,185000,'available'),
	  ('veh-002','3VWFE21C04M000784','Volkswagen','Jetta',2021,265000,'available'),
	  ('veh-003','2T1BURHE5JC014321','Toyota','Corolla',2018,172500,'available'),
	  ('veh-004','1FTFW1ET5DFC10312','Ford','Lobo',2020,415000,'maintenance')`)
	return tx.Commit()
}

// seedUsers ensures one user per role exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-admin", "admin@autolote.test", "Administrador", "ADMIN", "Passw0rd!"),
		mk("u-emprendedor", "ventas@autolote.test", "Emprendedor", "ENTREPRENEUR", "Passw0rd!"),
		mk("u-comprador", "comprador@autolote.test", "Comprador", "BUYER", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
