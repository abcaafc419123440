package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/matlens/backend/internal/domain"
)

// The supplier feed is semicolon-delimited Windows-1252 text with fixed
// column positions and a single header line. Decimal values use comma
// separators.
const (
	colArticleCode = iota
	colReplacementCode
	colName
	colGTINTransportPack
	colGTINConsumerPack
	colCategory
	colSubcategory
	colQuantity
	colUnit
	colPrice
	colSupplier

	columnCount
)

const fieldSeparator = ";"

// Parse reads a supplier catalog feed and returns its entries. Rows
// with too few columns or without an article code are skipped rather
// than failing the whole load; the feed routinely carries trailer lines
// and legacy garbage.
func Parse(r io.Reader) ([]domain.CatalogEntry, error) {
	decoded := transform.NewReader(r, charmap.Windows1252.NewDecoder())
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []domain.CatalogEntry
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue // header
		}
		raw := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		entry, ok := parseLine(raw)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog feed at line %d: %w", line, err)
	}
	return entries, nil
}

func parseLine(raw string) (domain.CatalogEntry, bool) {
	fields := strings.Split(raw, fieldSeparator)
	if len(fields) < columnCount {
		return domain.CatalogEntry{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if fields[colArticleCode] == "" {
		return domain.CatalogEntry{}, false
	}

	return domain.CatalogEntry{
		ArticleCode:       fields[colArticleCode],
		ReplacementCode:   fields[colReplacementCode],
		Name:              fields[colName],
		GTINTransportPack: fields[colGTINTransportPack],
		GTINConsumerPack:  fields[colGTINConsumerPack],
		Category:          fields[colCategory],
		Subcategory:       fields[colSubcategory],
		Quantity:          parseFloat(fields[colQuantity]),
		Unit:              fields[colUnit],
		Price:             parsePrice(fields[colPrice]),
		Supplier:          fields[colSupplier],
	}, true
}

// parseFloat reads a comma-decimal number, returning 0 for blanks and
// unparseable values.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// parsePrice reads a comma-decimal money value, returning zero for
// blanks and unparseable values.
func parsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}
