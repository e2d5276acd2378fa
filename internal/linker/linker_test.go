package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

func listing(sku string) domain.ListingRow {
	return domain.ListingRow{ItemID: "MLA1", SKU: sku, Title: "algo"}
}

func TestJoin_Match(t *testing.T) {
	t.Parallel()

	joined := Join(
		[]domain.ListingRow{listing("NEO-001")},
		[]domain.CatalogRow{{ProductCode: "NEO-001", Name: "Notebook", TariffPrice: 12513.10, StockOnHand: 5}},
	)
	require.Len(t, joined, 1)

	row := joined[0]
	require.True(t, row.Matched())
	assert.Equal(t, "Notebook", row.Catalog.Name)
	assert.Empty(t, row.Notes, "notes must be empty when no flag triggered")
}

func TestJoin_NoMatch(t *testing.T) {
	t.Parallel()

	joined := Join(
		[]domain.ListingRow{listing("NEO-404")},
		[]domain.CatalogRow{{ProductCode: "NEO-001", TariffPrice: 100}},
	)
	require.Len(t, joined, 1)

	row := joined[0]
	assert.False(t, row.Matched())
	// Unmatched rows flag the missing SKU and missing tariff, in that order.
	assert.Equal(t,
		"SKU no encontrado en Odoo; Precio Tarifa faltante",
		row.Notes,
	)
}

func TestJoin_ZeroTariff(t *testing.T) {
	t.Parallel()

	joined := Join(
		[]domain.ListingRow{listing("NEO-001")},
		[]domain.CatalogRow{{ProductCode: "NEO-001", TariffPrice: 0, StockOnHand: 3}},
	)
	require.Len(t, joined, 1)
	assert.Equal(t, domain.NoteTariffMissing, joined[0].Notes)
}

func TestJoin_StockMissing(t *testing.T) {
	t.Parallel()

	joined := Join(
		[]domain.ListingRow{listing("NEO-001")},
		[]domain.CatalogRow{{ProductCode: "NEO-001", TariffPrice: 100, StockMissing: true}},
	)
	require.Len(t, joined, 1)
	assert.Equal(t, domain.NoteStockMissing, joined[0].Notes)
}

func TestJoin_AllFlagsInOrder(t *testing.T) {
	t.Parallel()

	joined := Join(
		[]domain.ListingRow{listing("NEO-001")},
		[]domain.CatalogRow{{ProductCode: "NEO-001", TariffPrice: 0, StockMissing: true}},
	)
	require.Len(t, joined, 1)
	assert.Equal(t, "Precio Tarifa faltante; Stock faltante", joined[0].Notes)
}

func TestJoin_PreservesListingOrder(t *testing.T) {
	t.Parallel()

	joined := Join(
		[]domain.ListingRow{listing("B"), listing("A"), listing("B")},
		[]domain.CatalogRow{{ProductCode: "A", TariffPrice: 1}, {ProductCode: "B", TariffPrice: 2}},
	)
	require.Len(t, joined, 3)
	assert.Equal(t, "B", joined[0].Listing.SKU)
	assert.Equal(t, "A", joined[1].Listing.SKU)
	assert.Equal(t, "B", joined[2].Listing.SKU)
}

func TestJoin_DuplicateCatalogCodesFirstWins(t *testing.T) {
	t.Parallel()

	joined := Join(
		[]domain.ListingRow{listing("A")},
		[]domain.CatalogRow{
			{ProductCode: "A", TariffPrice: 10},
			{ProductCode: "A", TariffPrice: 99},
		},
	)
	require.Len(t, joined, 1)
	require.True(t, joined[0].Matched())
	assert.InDelta(t, 10.0, joined[0].Catalog.TariffPrice, 1e-9)
}

func TestAppendNote_Accumulates(t *testing.T) {
	t.Parallel()

	row := domain.JoinedRow{}
	AppendNote(&row, "uno")
	AppendNote(&row, "dos")
	assert.Equal(t, "uno; dos", row.Notes)
}
