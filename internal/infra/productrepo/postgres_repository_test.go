package productrepo

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skinguide/internal/domain/catalog"
)

func TestScanProductToleratesNullColumns(t *testing.T) {
	row := fakeRow{values: []any{
		"cosrx-snail-mucin", "Advanced Snail 96 Mucin Power Essence", "COSRX", "essence",
		[]string{"snail_mucin"}, []string{"all"}, nil,
		nil, nil, nil, nil, nil, nil,
	}}

	p, err := scanProduct(row)
	require.NoError(t, err)
	require.Equal(t, catalog.Product{
		ID:             "cosrx-snail-mucin",
		Name:           "Advanced Snail 96 Mucin Power Essence",
		Brand:          "COSRX",
		ProductType:    "essence",
		KeyIngredients: []string{"snail_mucin"},
		SkinTypes:      []string{"all"},
	}, p)
}

func TestScanProductReadsOptionalColumns(t *testing.T) {
	row := fakeRow{values: []any{
		"round-lab-dokdo-cleanser", "1025 Dokdo Cleanser", "Round Lab", "cleanser",
		[]string{"sea_water"}, []string{"oily", "combination"}, []string{"acne"},
		"budget", 12.5, int64(150), 4.6, "Gentle low-pH foam", "https://example.com/dokdo",
	}}

	p, err := scanProduct(row)
	require.NoError(t, err)
	require.Equal(t, "budget", p.PriceRange)
	require.Equal(t, 12.5, p.PriceUSD)
	require.Equal(t, 150, p.SizeML)
	require.Equal(t, 4.6, p.Rating)
	require.Equal(t, []string{"acne"}, p.Concerns)
	require.Equal(t, "https://example.com/dokdo", p.ExternalURL)
}

// fakeRow assigns values positionally, routing through sql.Scanner like a driver would.
type fakeRow struct {
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		v := r.values[i]
		switch target := d.(type) {
		case sql.Scanner:
			if err := target.Scan(v); err != nil {
				return fmt.Errorf("column %d: %w", i, err)
			}
		case *string:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("column %d: cannot scan %v into *string", i, v)
			}
			*target = s
		case *[]string:
			if v == nil {
				*target = nil
				continue
			}
			*target = v.([]string)
		default:
			return fmt.Errorf("column %d: unsupported destination %T", i, d)
		}
	}
	return nil
}
