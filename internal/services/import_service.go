package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/domain"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/repos"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/validate"
)

// ErrBadFile marks file-level failures (unreadable format, no data rows).
// Row-level problems never surface as an operation error; they land in the
// result summary instead.
var ErrBadFile = errors.New("archivo de importación ilegible")

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResult struct {
	Success int        `json:"success"`
	Errors  []RowError `json:"errors"`
}

type ImportService struct {
	Vehicles *repos.VehicleRepo
	Ledger   *SaleService
}

func NewImportService(vehicles *repos.VehicleRepo, ledger *SaleService) *ImportService {
	return &ImportService{Vehicles: vehicles, Ledger: ledger}
}

// Header synonyms, lowercase and trimmed. The source spreadsheets arrive
// with mixed Spanish/English headings.
var headerSynonyms = map[string]string{
	"vin":                "vin",
	"cliente":            "name",
	"nombre":             "name",
	"nombre del cliente": "name",
	"customer":           "name",
	"customer name":      "name",
	"email":              "email",
	"correo":             "email",
	"correo electronico": "email",
	"correo electrónico": "email",
	"customer email":     "email",
	"telefono":           "phone",
	"teléfono":           "phone",
	"phone":              "phone",
	"customer phone":     "phone",
	"precio":             "price",
	"precio de venta":    "price",
	"price":              "price",
	"sale price":         "price",
	"monto":              "price",
	"pago":               "payment",
	"forma de pago":      "payment",
	"metodo de pago":     "payment",
	"método de pago":     "payment",
	"payment":            "payment",
	"payment method":     "payment",
	"estado":             "status",
	"estatus":            "status",
	"status":             "status",
	"notas":              "notes",
	"observaciones":      "notes",
	"notes":              "notes",
	"fecha":              "date",
	"fecha de venta":     "date",
	"date":               "date",
	"sale date":          "date",
}

var paymentSynonyms = map[string]string{
	"efectivo":         domain.PayCash,
	"cash":             domain.PayCash,
	"tarjeta":          domain.PayCredit,
	"card":             domain.PayCredit,
	"credito":          domain.PayCredit,
	"crédito":          domain.PayCredit,
	"credit":           domain.PayCredit,
	"financiamiento":   domain.PayFinancing,
	"financing":        domain.PayFinancing,
	"credito bancario": domain.PayFinancing,
}

var statusSynonyms = map[string]string{
	"completada":  domain.SaleCompleted,
	"completado":  domain.SaleCompleted,
	"completed":   domain.SaleCompleted,
	"pendiente":   domain.SalePending,
	"pending":     domain.SalePending,
	"cancelada":   domain.SaleCancelled,
	"cancelado":   domain.SaleCancelled,
	"cancelled":   domain.SaleCancelled,
	"canceled":    domain.SaleCancelled,
	"reembolsada": domain.SaleRefunded,
	"reembolsado": domain.SaleRefunded,
	"refunded":    domain.SaleRefunded,
}

// ImportRows parses a spreadsheet (.xlsx or .csv) and applies the sale
// ledger one row at a time. Rows run strictly in order and each sale
// commits before the next row starts, so a later row referencing an
// already-consumed VIN fails its availability check. One bad row never
// aborts the batch.
func (s *ImportService) ImportRows(p domain.Principal, filename string, r io.Reader) (ImportResult, error) {
	if !p.Caps.CreateSale {
		return ImportResult{}, fmt.Errorf("%w: missing canCreateSale", ErrUnauthorized)
	}

	rows, err := readRows(filename, r)
	if err != nil {
		return ImportResult{}, err
	}
	if len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("%w: el archivo no contiene filas de datos", ErrBadFile)
	}

	cols := mapHeader(rows[0])
	if _, ok := cols["vin"]; !ok {
		return ImportResult{}, fmt.Errorf("%w: no se reconoció la columna VIN", ErrBadFile)
	}

	vehicles, err := s.Vehicles.ListAll()
	if err != nil {
		return ImportResult{}, err
	}
	byVIN := make(map[string]domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byVIN[strings.ToUpper(strings.TrimSpace(v.VIN))] = v
	}
	consumed := map[string]bool{}

	result := ImportResult{Errors: []RowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based with header offset
		fail := func(msg string) {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Error: msg})
		}

		vin := strings.TrimSpace(cell(row, cols, "vin"))
		name := strings.TrimSpace(cell(row, cols, "name"))
		email := strings.TrimSpace(cell(row, cols, "email"))
		priceRaw := strings.TrimSpace(cell(row, cols, "price"))
		if vin == "" || name == "" || email == "" || priceRaw == "" {
			fail("Fila incompleta: se requieren VIN, cliente, correo y precio")
			continue
		}

		key := strings.ToUpper(vin)
		v, found := byVIN[key]
		if !found {
			fail(fmt.Sprintf("Vehículo con VIN %q no encontrado", vin))
			continue
		}
		if consumed[key] || v.Status != domain.VehicleAvailable {
			fail(fmt.Sprintf("Vehículo con VIN %q no disponible", vin))
			continue
		}

		price, ok := parsePrice(priceRaw)
		if !ok {
			fail(fmt.Sprintf("Precio inválido: %q", priceRaw))
			continue
		}
		if _, ok := validate.Email(email); !ok {
			fail(fmt.Sprintf("Correo electrónico inválido: %q", email))
			continue
		}

		in := SaleInput{
			VehicleID:     v.ID,
			CustomerName:  name,
			CustomerEmail: email,
			CustomerPhone: strings.TrimSpace(cell(row, cols, "phone")),
			SalePrice:     price,
			PaymentMethod: mapSynonym(paymentSynonyms, cell(row, cols, "payment"), domain.PayCredit),
			Status:        mapSynonym(statusSynonyms, cell(row, cols, "status"), domain.SaleCompleted),
			Notes:         strings.TrimSpace(cell(row, cols, "notes")),
		}
		if raw := strings.TrimSpace(cell(row, cols, "date")); raw != "" {
			parsed, ok := parseSaleDate(raw)
			if !ok {
				fail(fmt.Sprintf("Fecha inválida: %q", raw))
				continue
			}
			in.SaleDate = parsed
		}

		if _, err := s.Ledger.Create(p, in); err != nil {
			switch {
			case errors.Is(err, ErrVehicleNotAvailable):
				fail(fmt.Sprintf("Vehículo con VIN %q no disponible", vin))
			case errors.Is(err, ErrValidation):
				fail(fmt.Sprintf("Datos inválidos: %v", err))
			default:
				fail(err.Error())
			}
			continue
		}
		consumed[key] = true
		result.Success++
	}

	return result, nil
}

func readRows(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFile, err)
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("%w: libro sin hojas", ErrBadFile)
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFile, err)
		}
		return rows, nil
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFile, err)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: solo se aceptan archivos .xlsx o .csv", ErrBadFile)
}

func mapHeader(header []string) map[string]int {
	cols := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, "_", " ")))
		if canonical, ok := headerSynonyms[h]; ok {
			if _, dup := cols[canonical]; !dup {
				cols[canonical] = i
			}
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func mapSynonym(table map[string]string, raw, fallback string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return fallback
	}
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

// parsePrice strips currency formatting ($, commas, spaces) before parsing.
func parsePrice(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil || d.Sign() <= 0 {
		return decimal.Decimal{}, false
	}
	return d, true
}

// excelEpoch is the day-zero of Excel serial dates.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// parseSaleDate tries ISO, date-only prefix, DD/MM/YYYY and Excel serial
// numbers, in that order.
func parseSaleDate(raw string) (string, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(saleDateLayout), true
	}
	if len(raw) >= 10 {
		if t, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return t.Format(saleDateLayout), true
		}
	}
	if t, err := time.Parse("02/01/2006", raw); err == nil {
		return t.Format(saleDateLayout), true
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		days := int(serial)
		frac := serial - float64(days)
		t := excelEpoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour)))
		return t.Format(saleDateLayout), true
	}
	return "", false
}
