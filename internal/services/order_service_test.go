package services_test

import (
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"marketbay/internal/domain"
	"marketbay/internal/repos"
	"marketbay/internal/services"
)

func newDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func addProduct(t *testing.T, db *sqlx.DB, id, name, price string, stock int) {
	t.Helper()
	p := domain.Product{
		ID: id, Name: name, Description: "test item",
		Price: decimal.RequireFromString(price), ImageURL: "/images/" + id + ".jpg",
		Category: "test", Stock: stock,
	}
	require.NoError(t, repos.NewProductRepo(db).Insert(&p))
}

func addUser(t *testing.T, db *sqlx.DB, id string) {
	t.Helper()
	require.NoError(t, repos.NewUserRepo(db).Create(&domain.User{
		ID: id, Email: id + "@marketbay.test", Hash: "x", Role: domain.RoleCustomer,
	}))
}

func testAddr() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:   "Jordan Reyes",
		Address:    "12 Harbor Lane",
		City:       "Portsmouth",
		PostalCode: "03801",
		Country:    "USA",
	}
}

func newServices(db *sqlx.DB) (*services.CartService, *services.OrderService) {
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	return services.NewCartService(cartRepo, prodRepo),
		services.NewOrderService(db, cartRepo, prodRepo, orderRepo)
}

func orderCount(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM orders`))
	return n
}

func stockOf(t *testing.T, db *sqlx.DB, id string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT stock FROM products WHERE id=?`, id))
	return n
}

func TestPlace_TotalSnapshotAndCartClear(t *testing.T) {
	db := newDB(t)
	addProduct(t, db, "p-a", "Widget A", "10.00", 5)
	addProduct(t, db, "p-b", "Widget B", "5.50", 10)
	cartSvc, orderSvc := newServices(db)

	_, err := cartSvc.Add("u-demo", "p-a", 2)
	require.NoError(t, err)
	_, err = cartSvc.Add("u-demo", "p-b", 3)
	require.NoError(t, err)

	o, err := orderSvc.Place("u-demo", testAddr())
	require.NoError(t, err)
	require.True(t, o.Total.Equal(decimal.RequireFromString("36.50")), "total = %s", o.Total)
	require.Equal(t, domain.StatusPending, o.Status)
	require.False(t, o.IsPaid)
	require.False(t, o.IsDelivered)
	require.Len(t, o.Items, 2)

	// stock decremented by the ordered quantities
	require.Equal(t, 3, stockOf(t, db, "p-a"))
	require.Equal(t, 7, stockOf(t, db, "p-b"))

	// cart cleared, not deleted
	cv, err := cartSvc.View("u-demo")
	require.NoError(t, err)
	require.Empty(t, cv.Items)

	// persisted order matches what was returned
	got, err := orderSvc.Get(o.ID)
	require.NoError(t, err)
	require.True(t, got.Total.Equal(o.Total))
	require.Len(t, got.Items, 2)
	require.Equal(t, "Portsmouth", got.Shipping.City)
}

func TestPlace_EmptyCartRejected(t *testing.T) {
	db := newDB(t)
	addProduct(t, db, "p-a", "Widget A", "10.00", 5)
	cartSvc, orderSvc := newServices(db)

	// no cart at all
	_, err := orderSvc.Place("u-demo", testAddr())
	require.ErrorIs(t, err, services.ErrCartEmpty)

	// cart exists but has zero lines
	_, err = cartSvc.Add("u-demo", "p-a", 1)
	require.NoError(t, err)
	_, err = cartSvc.Remove("u-demo", "p-a")
	require.NoError(t, err)
	_, err = orderSvc.Place("u-demo", testAddr())
	require.ErrorIs(t, err, services.ErrCartEmpty)

	require.Equal(t, 0, orderCount(t, db))
	require.Equal(t, 5, stockOf(t, db, "p-a"))
}

func TestPlace_MissingAddressFieldsNamed(t *testing.T) {
	db := newDB(t)
	addProduct(t, db, "p-a", "Widget A", "10.00", 5)
	cartSvc, orderSvc := newServices(db)
	_, err := cartSvc.Add("u-demo", "p-a", 2)
	require.NoError(t, err)

	addr := testAddr()
	addr.City = ""
	addr.Country = "  "
	_, err = orderSvc.Place("u-demo", addr)

	var vErr *services.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.ElementsMatch(t, []string{"city", "country"}, vErr.Fields)

	// no side effects
	require.Equal(t, 0, orderCount(t, db))
	require.Equal(t, 5, stockOf(t, db, "p-a"))
	cv, _ := cartSvc.View("u-demo")
	require.Len(t, cv.Items, 1)
}

func TestPlace_DeletedProductFailsWholeOrder(t *testing.T) {
	db := newDB(t)
	addProduct(t, db, "p-a", "Widget A", "10.00", 5)
	addProduct(t, db, "p-b", "Widget B", "5.50", 10)
	cartSvc, orderSvc := newServices(db)

	_, err := cartSvc.Add("u-demo", "p-a", 1)
	require.NoError(t, err)
	_, err = cartSvc.Add("u-demo", "p-b", 1)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM products WHERE id='p-a'`)
	require.NoError(t, err)

	_, err = orderSvc.Place("u-demo", testAddr())
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	require.Equal(t, "p-a", nfErr.ID)

	// no partial order, surviving product untouched, cart intact
	require.Equal(t, 0, orderCount(t, db))
	require.Equal(t, 10, stockOf(t, db, "p-b"))
	cv, _ := cartSvc.View("u-demo")
	require.Len(t, cv.Items, 2)
}

func TestPlace_InsufficientStockRollsBack(t *testing.T) {
	db := newDB(t)
	addProduct(t, db, "p-a", "Widget A", "10.00", 5)
	addProduct(t, db, "p-b", "Widget B", "5.50", 3)
	cartSvc, orderSvc := newServices(db)

	_, err := cartSvc.Add("u-demo", "p-a", 2)
	require.NoError(t, err)
	_, err = cartSvc.Add("u-demo", "p-b", 3)
	require.NoError(t, err)

	// stock shrinks between add-to-cart and checkout
	_, err = db.Exec(`UPDATE products SET stock = 1 WHERE id='p-b'`)
	require.NoError(t, err)

	_, err = orderSvc.Place("u-demo", testAddr())
	var insErr *services.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	require.Equal(t, "p-b", insErr.ProductID)
	require.Equal(t, 1, insErr.Available)
	require.Equal(t, 3, insErr.Requested)

	// the earlier decrement of p-a was rolled back
	require.Equal(t, 5, stockOf(t, db, "p-a"))
	require.Equal(t, 1, stockOf(t, db, "p-b"))
	require.Equal(t, 0, orderCount(t, db))
	cv, _ := cartSvc.View("u-demo")
	require.Len(t, cv.Items, 2)
}

func TestPlace_SnapshotSurvivesProductEdits(t *testing.T) {
	db := newDB(t)
	addProduct(t, db, "p-a", "Widget A", "10.00", 5)
	cartSvc, orderSvc := newServices(db)
	_, err := cartSvc.Add("u-demo", "p-a", 1)
	require.NoError(t, err)

	o, err := orderSvc.Place("u-demo", testAddr())
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE products SET name='Renamed', price=99.99, image_url='/new.jpg' WHERE id='p-a'`)
	require.NoError(t, err)

	got, err := orderSvc.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, "Widget A", got.Items[0].Name)
	require.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	require.Equal(t, "/images/p-a.jpg", got.Items[0].ImageURL)
	require.True(t, got.Total.Equal(decimal.RequireFromString("10.00")))
}

func TestPlace_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	db := newDB(t)
	addProduct(t, db, "p-hot", "Hot Item", "10.00", 5)
	cartSvc, orderSvc := newServices(db)

	const buyers = 10
	users := make([]string, buyers)
	for i := range users {
		users[i] = "u-buyer-" + string(rune('a'+i))
		addUser(t, db, users[i])
		_, err := cartSvc.Add(users[i], "p-hot", 1)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orderSvc.Place(users[i], testAddr())
		}(i)
	}
	wg.Wait()

	placed := 0
	for _, err := range errs {
		if err == nil {
			placed++
		} else {
			var insErr *services.InsufficientStockError
			require.ErrorAs(t, err, &insErr)
		}
	}
	require.Equal(t, 5, placed)
	require.Equal(t, 0, stockOf(t, db, "p-hot"))
	require.Equal(t, 5, orderCount(t, db))
}

func TestUpdateStatus(t *testing.T) {
	db := newDB(t)
	addProduct(t, db, "p-a", "Widget A", "10.00", 5)
	cartSvc, orderSvc := newServices(db)
	_, err := cartSvc.Add("u-demo", "p-a", 1)
	require.NoError(t, err)
	o, err := orderSvc.Place("u-demo", testAddr())
	require.NoError(t, err)

	_, err = orderSvc.UpdateStatus(o.ID, "teleported")
	var vErr *services.ValidationError
	require.ErrorAs(t, err, &vErr)

	got, err := orderSvc.UpdateStatus(o.ID, domain.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, got.Status)

	_, err = orderSvc.UpdateStatus("no-such-order", domain.StatusShipped)
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
