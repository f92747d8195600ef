package sync

import (
	"fmt"
	"testing"

	"woosync/internal/logger"
	"woosync/internal/odoo"
	"woosync/internal/woo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeErp is an in-memory ErpClient. Records are keyed by model and id;
// external ids resolve through the same per-model field the real client
// uses.
type fakeErp struct {
	nextID   int64
	records  map[string][]map[string]interface{}
	created  []string
	updated  []string
	failCust bool
	failProd bool
}

func newFakeErp() *fakeErp {
	return &fakeErp{
		nextID:  1,
		records: map[string][]map[string]interface{}{},
	}
}

func (f *fakeErp) Authenticate() bool { return true }

func (f *fakeErp) CreateRecord(model string, fields map[string]interface{}) (int64, error) {
	record := map[string]interface{}{"id": f.nextID}
	for k, v := range fields {
		record[k] = v
	}
	f.records[model] = append(f.records[model], record)
	f.created = append(f.created, model)
	f.nextID++
	return record["id"].(int64), nil
}

func (f *fakeErp) UpdateRecord(model string, id int64, fields map[string]interface{}) bool {
	for _, record := range f.records[model] {
		if record["id"] == id {
			for k, v := range fields {
				record[k] = v
			}
			f.updated = append(f.updated, fmt.Sprintf("%s:%d", model, id))
			return true
		}
	}
	return false
}

func (f *fakeErp) SearchRecords(model string, domain []interface{}, fields []string, limit int) []map[string]interface{} {
	return f.records[model]
}

func (f *fakeErp) GetByExternalID(model, externalID string) map[string]interface{} {
	field := "x_woo_id"
	if model == "sale.order" {
		field = "x_woo_order_id"
	}
	for _, record := range f.records[model] {
		if record[field] == externalID {
			return record
		}
	}
	return nil
}

func (f *fakeErp) GetOrCreateCustomer(data odoo.CustomerData) (int64, error) {
	if f.failCust {
		return 0, fmt.Errorf("customer create refused")
	}
	if existing := f.GetByExternalID("res.partner", data.WooID); existing != nil {
		return odoo.RecordID(existing), nil
	}
	return f.CreateRecord("res.partner", map[string]interface{}{
		"name":     data.Name,
		"email":    data.Email,
		"x_woo_id": data.WooID,
	})
}

func (f *fakeErp) GetOrCreateProduct(data odoo.ProductData) (int64, error) {
	if f.failProd {
		return 0, fmt.Errorf("product create refused")
	}
	if existing := f.GetByExternalID("product.product", data.WooID); existing != nil {
		return odoo.RecordID(existing), nil
	}
	return f.CreateRecord("product.product", map[string]interface{}{
		"name":         data.Name,
		"default_code": data.SKU,
		"list_price":   data.Price,
		"x_woo_id":     data.WooID,
	})
}

type fakeStore struct {
	bookings  []woo.Booking
	customers []woo.Customer
	products  map[int64]*woo.Product
	updates   map[int64]map[string]interface{}
}

func (f *fakeStore) GetRecentBookings(hours int) ([]woo.Booking, error) {
	return f.bookings, nil
}

func (f *fakeStore) GetCustomers(perPage, page int) ([]woo.Customer, error) {
	return f.customers, nil
}

func (f *fakeStore) GetProduct(productID int64) (*woo.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %d not found", productID)
	}
	return p, nil
}

func (f *fakeStore) UpdateProduct(productID int64, data map[string]interface{}) (*woo.Product, error) {
	if f.updates == nil {
		f.updates = map[int64]map[string]interface{}{}
	}
	f.updates[productID] = data
	return f.products[productID], nil
}

func newTestEngine(erp ErpClient, store Storefront) *Engine {
	return NewEngine(erp, store, nil, logger.New("error"))
}

func bookingOrder() *woo.Order {
	return &woo.Order{
		ID:          100,
		Number:      "100",
		Status:      "completed",
		CustomerID:  7,
		DateCreated: "2024-05-01T08:00:00",
		Total:       "100.00",
		Billing: woo.Billing{
			FirstName: "Ana",
			LastName:  "Lopez",
			Email:     "ana@example.com",
		},
		LineItems: []woo.LineItem{{
			ProductID: 7,
			Name:      "Yoga class",
			Quantity:  2,
			Total:     "100.00",
			MetaData: []woo.MetaData{
				{Key: "booking_date", Value: "2024-05-10T10:00:00"},
				{Key: "persons", Value: "3"},
			},
		}},
	}
}

func TestProcessOrderCreatesEverything(t *testing.T) {
	erp := newFakeErp()
	engine := newTestEngine(erp, &fakeStore{})

	ok := engine.ProcessOrder(bookingOrder())
	require.True(t, ok)

	product := erp.GetByExternalID("product.product", "100_7")
	require.NotNil(t, product)
	assert.Equal(t, "Yoga class - 2024-05-10 10:00 (3 persons)", product["name"])
	assert.Equal(t, "BOOKING_100_7", product["default_code"])

	order := erp.GetByExternalID("sale.order", "100")
	require.NotNil(t, order)
	assert.Equal(t, "WooCommerce #100", order["origin"])
	assert.Equal(t, "draft", order["state"])

	lines := erp.records["sale.order.line"]
	require.Len(t, lines, 1)
	assert.Equal(t, odoo.RecordID(order), lines[0]["order_id"])
	assert.Equal(t, odoo.RecordID(product), lines[0]["product_id"])
	assert.Equal(t, 2, lines[0]["product_uom_qty"])
	assert.Equal(t, 50.0, lines[0]["price_unit"])
}

func TestProcessOrderIsIdempotentOnReplay(t *testing.T) {
	erp := newFakeErp()
	engine := newTestEngine(erp, &fakeStore{})

	order := bookingOrder()
	require.True(t, engine.ProcessOrder(order))
	require.True(t, engine.ProcessOrder(order))

	assert.Len(t, erp.records["sale.order"], 1)
	assert.Len(t, erp.records["product.product"], 1)
	assert.Len(t, erp.records["sale.order.line"], 1)
}

func TestProcessOrderUpdatesExistingOrder(t *testing.T) {
	erp := newFakeErp()
	_, err := erp.CreateRecord("sale.order", map[string]interface{}{
		"x_woo_order_id": "555",
		"state":          "draft",
	})
	require.NoError(t, err)

	engine := newTestEngine(erp, &fakeStore{})

	order := &woo.Order{ID: 555, Number: "555", Status: "completed", Total: "40.00"}
	ok := engine.ProcessOrder(order)
	require.True(t, ok)

	existing := erp.GetByExternalID("sale.order", "555")
	assert.Equal(t, "sale", existing["state"])
	assert.Contains(t, existing["note"], "Last sync")
	assert.Len(t, erp.records["sale.order"], 1)
	assert.Empty(t, erp.records["sale.order.line"])
}

func TestProcessOrderCancelledMapsToCancel(t *testing.T) {
	erp := newFakeErp()
	_, err := erp.CreateRecord("sale.order", map[string]interface{}{
		"x_woo_order_id": "556",
		"state":          "sale",
	})
	require.NoError(t, err)

	engine := newTestEngine(erp, &fakeStore{})

	ok := engine.ProcessOrder(&woo.Order{ID: 556, Number: "556", Status: "cancelled"})
	require.True(t, ok)
	assert.Equal(t, "cancel", erp.GetByExternalID("sale.order", "556")["state"])
}

func TestProcessOrderWithoutBookings(t *testing.T) {
	erp := newFakeErp()
	engine := newTestEngine(erp, &fakeStore{})

	order := &woo.Order{ID: 101, Number: "101", Status: "completed"}
	ok := engine.ProcessOrder(order)

	assert.False(t, ok)
	assert.Empty(t, erp.created)
}

func TestProcessOrderProductFailureSkipsSaleOrder(t *testing.T) {
	erp := newFakeErp()
	erp.failProd = true
	engine := newTestEngine(erp, &fakeStore{})

	ok := engine.ProcessOrder(bookingOrder())

	assert.False(t, ok)
	assert.Empty(t, erp.records["sale.order"])
}

func TestCreateSaleOrderRequiresCustomer(t *testing.T) {
	erp := newFakeErp()
	erp.failCust = true
	engine := newTestEngine(erp, &fakeStore{})

	order := bookingOrder()
	bookings := woo.ExtractBookings(order)
	_, err := engine.createSaleOrder(order, bookings)

	assert.Error(t, err)
	assert.Empty(t, erp.records["sale.order"])
}

func TestCreateSaleOrderSkipsZeroQuantityLines(t *testing.T) {
	erp := newFakeErp()
	engine := newTestEngine(erp, &fakeStore{})

	order := bookingOrder()
	order.LineItems[0].Quantity = 0

	ok := engine.ProcessOrder(order)
	require.True(t, ok)

	assert.Len(t, erp.records["sale.order"], 1)
	assert.Empty(t, erp.records["sale.order.line"])
}

func TestSyncBooking(t *testing.T) {
	t.Run("single person omits the suffix", func(t *testing.T) {
		erp := newFakeErp()
		engine := newTestEngine(erp, &fakeStore{})

		booking := woo.Booking{
			OrderID: 100, OrderNumber: "100", ProductID: 7,
			ProductName: "Yoga class", Quantity: 1, Total: 50,
			BookingDate: "2024-05-10", Persons: 1,
		}
		require.True(t, engine.SyncBooking(&booking))

		product := erp.GetByExternalID("product.product", "100_7")
		require.NotNil(t, product)
		assert.Equal(t, "Yoga class - 2024-05-10", product["name"])
	})

	t.Run("unparseable date fails cleanly", func(t *testing.T) {
		erp := newFakeErp()
		engine := newTestEngine(erp, &fakeStore{})

		booking := woo.Booking{
			OrderID: 100, ProductID: 7, ProductName: "Yoga class",
			BookingDate: "05/10T2024", Persons: 1,
		}
		assert.False(t, engine.SyncBooking(&booking))
		assert.Empty(t, erp.created)
	})
}

func TestManualSync(t *testing.T) {
	store := &fakeStore{
		bookings: []woo.Booking{{
			OrderID: 100, OrderNumber: "100", ProductID: 7,
			ProductName: "Yoga class", Quantity: 1, Total: 50,
			BookingDate: "2024-05-10", Persons: 1,
		}},
		customers: []woo.Customer{{
			ID: 3, Email: "ana@example.com", FirstName: "Ana", LastName: "Lopez",
		}},
	}

	t.Run("all covers bookings and customers", func(t *testing.T) {
		erp := newFakeErp()
		engine := newTestEngine(erp, store)

		synced, errs := engine.ManualSync("all", 24)
		assert.Equal(t, 2, synced)
		assert.Zero(t, errs)
		assert.NotNil(t, erp.GetByExternalID("product.product", "100_7"))
		assert.NotNil(t, erp.GetByExternalID("res.partner", "3"))
	})

	t.Run("orders scope skips customers", func(t *testing.T) {
		erp := newFakeErp()
		engine := newTestEngine(erp, store)

		synced, _ := engine.ManualSync("orders", 24)
		assert.Equal(t, 1, synced)
		assert.Nil(t, erp.GetByExternalID("res.partner", "3"))
	})
}

func TestSyncOdooToWoo(t *testing.T) {
	erp := newFakeErp()
	for _, record := range []map[string]interface{}{
		{"name": "Yoga class", "x_woo_id": "7", "list_price": 55.0, "default_code": "YOGA"},
		{"name": "Booking artifact", "x_woo_id": "100_7"},
		{"name": "Unsynced", "x_woo_id": "False"},
	} {
		_, err := erp.CreateRecord("product.product", record)
		require.NoError(t, err)
	}

	store := &fakeStore{products: map[int64]*woo.Product{
		7: {ID: 7, Name: "Yoga class"},
	}}
	engine := newTestEngine(erp, store)

	engine.SyncOdooToWoo()

	require.Len(t, store.updates, 1)
	update := store.updates[7]
	require.NotNil(t, update)
	assert.Equal(t, "Yoga class", update["name"])
	assert.Equal(t, "55", update["regular_price"])
	assert.Equal(t, "YOGA", update["sku"])
}

func TestProcessCustomer(t *testing.T) {
	erp := newFakeErp()
	engine := newTestEngine(erp, &fakeStore{})

	customer := &woo.Customer{
		ID: 3, Email: "ana@example.com", FirstName: "Ana", LastName: "Lopez",
	}
	require.True(t, engine.ProcessCustomer(customer))

	partner := erp.GetByExternalID("res.partner", "3")
	require.NotNil(t, partner)
	assert.Equal(t, "Ana Lopez", partner["name"])

	// Replays resolve to the same partner.
	require.True(t, engine.ProcessCustomer(customer))
	assert.Len(t, erp.records["res.partner"], 1)
}

func TestUnitPrice(t *testing.T) {
	price, err := unitPrice(100, 2)
	require.NoError(t, err)
	assert.Equal(t, 50.0, price)

	price, err = unitPrice(10, 3)
	require.NoError(t, err)
	assert.InDelta(t, 3.3333, price, 0.0001)

	_, err = unitPrice(100, 0)
	assert.Error(t, err)
	_, err = unitPrice(100, -1)
	assert.Error(t, err)
}

func TestFormatBookingDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-05-10", "2024-05-10"},
		{"May 10th", "May 10th"},
		{"2024-05-10T10:00:00", "2024-05-10 10:00"},
		{"2024-05-10T10:00", "2024-05-10 10:00"},
		{"2024-05-10T10:00:00Z", "2024-05-10 10:00"},
		{"2024-05-10T10:00:00+02:00", "2024-05-10 10:00"},
	}
	for _, tt := range tests {
		got, err := formatBookingDate(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, err := formatBookingDate("05/10T2024")
	assert.Error(t, err)
}
