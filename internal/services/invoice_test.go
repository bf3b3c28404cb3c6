package services_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
)

var reInvoice = regexp.MustCompile(`^INV-\d{8}-\d{4}$`)

func TestGenerateInvoiceNumberFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		n := services.GenerateInvoiceNumber()
		if !reInvoice.MatchString(n) {
			t.Fatalf("bad invoice number %q", n)
		}
		if !strings.Contains(n, time.Now().Format("20060102")) {
			t.Fatalf("invoice number %q missing today's date segment", n)
		}
	}
}
