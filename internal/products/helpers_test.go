package product

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
	"github.com/angelmondragon/jewelcraft-backend/internal/validation"
	"github.com/angelmondragon/jewelcraft-backend/pkg/migrate"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrate.ApplySQLiteSchema(context.Background(), db))
	return db
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func strPtr(v string) *string { return &v }

func goldSelection() selection.Selection {
	return selection.Selection{
		Metals: []selection.SelectedMetal{{
			MetalTypeID: "gold",
			ColorIDs:    []string{"yellow", "rose"},
			Purities:    []selection.Purity{{PurityID: "18k", Weight: d("2.5")}},
		}},
	}
}

func diamondSelection() selection.Selection {
	sel := goldSelection()
	sel.Stone.Diamond = selection.DiamondSelection{
		HasDiamond:      true,
		ClarityColorIDs: []string{"vs-gh", "si-ij"},
		Entries: []selection.DiamondEntry{{
			ShapeID:    "round",
			TotalCarat: d("0.5"),
			NoOfStones: 10,
			Pricings:   map[string]string{"vs-gh": "p-vs", "si-ij": "p-si"},
		}},
	}
	return sel
}

func validDraft(sku string) validation.Draft {
	return validation.Draft{
		Basic: validation.BasicInfo{
			Title:  "Solitaire Ring",
			SKU:    sku,
			Length: "20mm",
			Width:  "18mm",
			Height: "6mm",
		},
		Selection:  diamondSelection(),
		Attributes: validation.Attributes{CategoryIDs: []string{"rings"}, TagIDs: []string{"bridal"}},
	}
}

func testSheet() PriceSheet {
	return PriceSheet{
		MetalRates:    map[string]decimal.Decimal{"18k": d("60")},
		MakingPerGram: d("10"),
		StoneRates:    map[string]decimal.Decimal{"p-vs": d("1000"), "p-si": d("600")},
	}
}
