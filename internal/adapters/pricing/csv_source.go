package pricing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"fuel-trip-service/internal/domain"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
)

// Accepted header spellings per column, compared after domain.Normalize.
var (
	nameHeaders     = []string{"truckstop name", "name", "stop name", "stop_name"}
	localityHeaders = []string{"city", "locality"}
	priceHeaders    = []string{"retail price", "price", "retail_price"}
)

// CSVSource loads the price reference table from a CSV file with a header row.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) LoadPrices(ctx context.Context) ([]domain.PriceEntry, error) {
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("load prices: csv path is empty")
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("load prices: open %q: %w", s.Path, err)
	}
	defer f.Close()

	entries, skipped, err := ParsePrices(f)
	if err != nil {
		return nil, fmt.Errorf("load prices: %q: %w", s.Path, err)
	}

	log.Printf("price table loaded source=%s rows=%d skipped=%d", s.Path, len(entries), skipped)
	return entries, nil
}

// ParsePrices reads priced rows from r. Rows whose price is missing, unparsable,
// negative or not finite are skipped and counted; they never fail the load.
func ParsePrices(r io.Reader) (_ []domain.PriceEntry, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	nameCol := findColumn(header, nameHeaders)
	localityCol := findColumn(header, localityHeaders)
	priceCol := findColumn(header, priceHeaders)
	if nameCol < 0 || localityCol < 0 || priceCol < 0 {
		return nil, 0, fmt.Errorf("header %v must contain name, city and price columns", header)
	}

	entries := make([]domain.PriceEntry, 0)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("read line %d: %w", line, err)
		}

		if len(record) <= max(nameCol, localityCol, priceCol) {
			skipped++
			continue
		}

		raw := strings.TrimSpace(record[priceCol])
		if raw == "" {
			skipped++
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			skipped++
			continue
		}

		entries = append(entries, domain.PriceEntry{
			Locality:     record[localityCol],
			StopName:     record[nameCol],
			PricePerUnit: price,
		})
	}

	return entries, skipped, nil
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = domain.Normalize(strings.TrimPrefix(h, "\ufeff"))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}
