package config

import (
	"log"
	"os"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string
	TaxRate decimal.Decimal
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "autolote.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./autolote.log"
	}
	rate := decimal.New(16, -2) // 16% IVA default
	if v := os.Getenv("TAX_RATE"); v != "" {
		if parsed, err := decimal.NewFromString(v); err == nil && parsed.Sign() >= 0 {
			rate = parsed
		} else {
			log.Printf("[config] ignoring invalid TAX_RATE=%q", v)
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, TaxRate: rate}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TAX_RATE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TaxRate)
	return cfg
}
