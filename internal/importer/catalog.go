// Package importer parses tabular catalog files into product create
// parameters. The column contract follows the retailer's spreadsheet
// template; files are CSV exports of it, semicolon or comma separated,
// in whatever charset the exporting tool produced.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/encoding"
)

// Column labels as they appear in the spreadsheet template.
const (
	colReference   = "Référence"
	colDesignation = "Désignation"
	colFamily      = "Famille"
	colSubFamily   = "Sous-famille"
	colVAT         = "TVA (%)"
	colPurchaseHT  = "Prix Achat HT (DZD)"
	colRetailHT    = "Prix Vente Détail HT (DZD)"
	colWholesaleHT = "Prix Vente Gros HT (DZD)"
	colStock       = "Stock Disponible"
	colMinStock    = "Stock Minimum"
	colUnit        = "Unité"
	colLocation    = "Localisation"
	colSupplier    = "Fournisseur"
	colBarcode     = "Code Barre"
	colPerishable  = "Périssable"
	colExpiry      = "Date Péremption"
)

// defaultVATRate applies when the VAT cell is blank or unparsable.
const defaultVATRate = 19

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Parse reads a catalog file and returns one create-params entry per data
// row. Rows before the header line and rows without a reference are
// skipped. The caller decides what to do with the result; parsing never
// mutates anything.
func (s *Service) Parse(r io.Reader) ([]catalog.CreateParams, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	cols := map[string]int{}
	headerFound := false

	var params []catalog.CreateParams

	for _, row := range rows {
		if !headerFound {
			// Search for the header landmark: a row carrying at least
			// the reference and designation columns.
			for i, cell := range row {
				cols[strings.TrimSpace(cell)] = i
			}

			_, hasRef := cols[colReference]
			_, hasDesig := cols[colDesignation]

			if hasRef && hasDesig {
				headerFound = true
			} else {
				clear(cols)
			}

			continue
		}

		reference := cell(row, cols, colReference)
		if reference == "" {
			continue
		}

		params = append(params, catalog.CreateParams{
			Reference:        reference,
			Designation:      cell(row, cols, colDesignation),
			Family:           cell(row, cols, colFamily),
			SubFamily:        cell(row, cols, colSubFamily),
			VATRate:          parseRate(cell(row, cols, colVAT)),
			PurchasePriceHT:  parseAmount(cell(row, cols, colPurchaseHT)),
			RetailPriceHT:    parseAmount(cell(row, cols, colRetailHT)),
			WholesalePriceHT: parseAmount(cell(row, cols, colWholesaleHT)),
			Quantity:         parseInt(cell(row, cols, colStock)),
			MinStock:         parseInt(cell(row, cols, colMinStock)),
			Unit:             parseUnit(cell(row, cols, colUnit)),
			Location:         cell(row, cols, colLocation),
			SupplierID:       cell(row, cols, colSupplier),
			Barcode:          cell(row, cols, colBarcode),
			Perishable:       parseFlag(cell(row, cols, colPerishable)),
			ExpiryDate:       parseDate(cell(row, cols, colExpiry)),
		})
	}

	if !headerFound {
		return nil, fmt.Errorf("no header row found (expected columns %q and %q)", colReference, colDesignation)
	}

	return params, nil
}

// sniffDelimiter picks the separator by counting candidates in the first
// non-empty line.
func sniffDelimiter(data string) rune {
	line, _, _ := strings.Cut(data, "\n")
	if strings.Count(line, ";") >= strings.Count(line, ",") {
		return ';'
	}

	return ','
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// parseAmount converts a decimal price ("1.234,56" or "1234.56") to
// centimes. Unparsable cells become zero.
func parseAmount(s string) int64 {
	if s == "" {
		return 0
	}

	clean := s

	// "1.234,56" uses dots as thousand separators and a decimal comma.
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}

	return int64(math.Round(val * 100))
}

func parseRate(s string) float64 {
	if s == "" {
		return defaultVATRate
	}

	val, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return defaultVATRate
	}

	return val
}

func parseInt(s string) int {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return val
}

func parseUnit(s string) catalog.Unit {
	switch strings.ToLower(s) {
	case "kit":
		return catalog.UnitKit
	case "jeu":
		return catalog.UnitSet
	case "lot":
		return catalog.UnitLot
	default:
		return catalog.UnitPiece
	}
}

func parseFlag(s string) bool {
	switch strings.ToUpper(s) {
	case "OUI", "YES", "TRUE", "1":
		return true
	}

	return false
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	for _, layout := range []string{time.DateOnly, "02/01/2006", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}
