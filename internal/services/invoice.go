package services

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateInvoiceNumber mints an INV-YYYYMMDD-#### candidate. The random
// suffix alone does not guarantee uniqueness; the sales table enforces a
// unique index on invoice_number and the ledger re-mints on conflict.
func GenerateInvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%04d", time.Now().Format("20060102"), rand.Intn(10000))
}
