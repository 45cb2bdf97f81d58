package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"marketbay/internal/repos"
	"marketbay/internal/services"
)

func newCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	db := newDB(t)
	return services.NewCatalogService(repos.NewProductRepo(db))
}

func TestCatalogCreate_ValidatesAndConflicts(t *testing.T) {
	catalog := newCatalog(t)

	_, err := catalog.Create(services.ProductInput{Name: "Lone Name"})
	var vErr *services.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "description")
	require.Contains(t, vErr.Fields, "imageUrl")
	require.Contains(t, vErr.Fields, "category")

	in := services.ProductInput{
		Name:        "Walnut Bookend",
		Description: "Solid walnut, sold individually.",
		Price:       decimal.RequireFromString("18.00"),
		ImageURL:    "/images/bookend.jpg",
		Category:    "home-living",
		Stock:       12,
	}
	p, err := catalog.Create(in)
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, 12, p.Stock)

	// names are unique case-insensitively
	in.Name = "walnut bookend"
	_, err = catalog.Create(in)
	var cfErr *services.ConflictError
	require.ErrorAs(t, err, &cfErr)
}

func TestCatalogUpdate_PartialPatch(t *testing.T) {
	catalog := newCatalog(t)
	p, err := catalog.Create(services.ProductInput{
		Name: "Walnut Bookend", Description: "Solid walnut.",
		Price: decimal.RequireFromString("18.00"), ImageURL: "/images/bookend.jpg",
		Category: "home-living", Stock: 12,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("21.50")
	got, err := catalog.Update(p.ID, services.ProductPatch{Price: &newPrice})
	require.NoError(t, err)
	require.True(t, got.Price.Equal(newPrice))
	require.Equal(t, "Walnut Bookend", got.Name) // untouched fields survive
	require.Equal(t, 12, got.Stock)

	_, err = catalog.Update("no-such-id", services.ProductPatch{Price: &newPrice})
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestCatalogDelete(t *testing.T) {
	catalog := newCatalog(t)
	p, err := catalog.Create(services.ProductInput{
		Name: "Walnut Bookend", Description: "Solid walnut.",
		Price: decimal.RequireFromString("18.00"), ImageURL: "/images/bookend.jpg",
		Category: "home-living", Stock: 12,
	})
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(p.ID))

	var nfErr *services.NotFoundError
	require.ErrorAs(t, catalog.Delete(p.ID), &nfErr)
	_, err = catalog.Get(p.ID)
	require.ErrorAs(t, err, &nfErr)
}

func TestCatalogList_FiltersByCategory(t *testing.T) {
	catalog := newCatalog(t)
	mk := func(name, category string) {
		_, err := catalog.Create(services.ProductInput{
			Name: name, Description: "d", Price: decimal.RequireFromString("1.00"),
			ImageURL: "/i.jpg", Category: category, Stock: 1,
		})
		require.NoError(t, err)
	}
	mk("Alpha", "fashion")
	mk("Beta", "fashion")
	mk("Gamma", "home-living")

	all, err := catalog.List("")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 3) // seeded demo products included

	fashion, err := catalog.List("fashion")
	require.NoError(t, err)
	names := []string{}
	for _, p := range fashion {
		names = append(names, p.Name)
	}
	require.Contains(t, names, "Alpha")
	require.Contains(t, names, "Beta")
	require.NotContains(t, names, "Gamma")
}
