package sync

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"woosync/internal/logger"
	"woosync/internal/models"
	"woosync/internal/odoo"
	"woosync/internal/woo"

	"github.com/shopspring/decimal"
)

// ErpClient is the slice of the Odoo client the engine depends on.
type ErpClient interface {
	Authenticate() bool
	CreateRecord(model string, fields map[string]interface{}) (int64, error)
	UpdateRecord(model string, id int64, fields map[string]interface{}) bool
	SearchRecords(model string, domain []interface{}, fields []string, limit int) []map[string]interface{}
	GetByExternalID(model, externalID string) map[string]interface{}
	GetOrCreateCustomer(data odoo.CustomerData) (int64, error)
	GetOrCreateProduct(data odoo.ProductData) (int64, error)
}

// Storefront is the slice of the WooCommerce client the engine depends on.
type Storefront interface {
	GetRecentBookings(hours int) ([]woo.Booking, error)
	GetCustomers(perPage, page int) ([]woo.Customer, error)
	GetProduct(productID int64) (*woo.Product, error)
	UpdateProduct(productID int64, data map[string]interface{}) (*woo.Product, error)
}

// Engine reconciles storefront orders, customers and bookings against the
// ERP. External-id fields on the ERP side are the sole deduplication key;
// every upsert re-checks them on each call.
type Engine struct {
	odoo   ErpClient
	woo    Storefront
	runs   *RunStore
	logger *logger.Logger
}

func NewEngine(erp ErpClient, store Storefront, runs *RunStore, log *logger.Logger) *Engine {
	return &Engine{
		odoo:   erp,
		woo:    store,
		runs:   runs,
		logger: log,
	}
}

// ProcessOrder syncs one storefront order. An order already known to the
// ERP gets its note and state refreshed; a new one has its bookings
// upserted as service products and a sale order created. Success means at
// least one booking synced.
func (e *Engine) ProcessOrder(order *woo.Order) bool {
	run := e.runs.Start(models.SyncTriggerWebhookOrder, strconv.FormatInt(order.ID, 10))

	e.logger.Info("Processing order WC#%s (ID: %d)", order.Number, order.ID)

	existing := e.odoo.GetByExternalID("sale.order", strconv.FormatInt(order.ID, 10))
	if existing != nil {
		e.logger.Info("Order %s already exists in Odoo, updating", order.Number)
		ok := e.updateExistingOrder(odoo.RecordID(existing), order)
		if ok {
			e.runs.Finish(run, 1, 0)
		} else {
			e.runs.RecordError(run, "order", strconv.FormatInt(order.ID, 10), "update failed")
			e.runs.Finish(run, 0, 1)
		}
		return ok
	}

	bookings := woo.ExtractBookings(order)
	if len(bookings) == 0 {
		e.logger.Warn("No bookings found in order %s", order.Number)
		e.runs.RecordError(run, "order", strconv.FormatInt(order.ID, 10), "no bookings in order")
		e.runs.Finish(run, 0, 1)
		return false
	}

	successCount := 0
	for i := range bookings {
		if e.SyncBooking(&bookings[i]) {
			successCount++
		} else {
			e.runs.RecordError(run, "booking", bookingExternalID(&bookings[i]), "booking sync failed")
		}
	}

	if successCount > 0 {
		if _, err := e.createSaleOrder(order, bookings); err != nil {
			e.runs.RecordError(run, "sale_order", strconv.FormatInt(order.ID, 10), err.Error())
		}
	}

	e.logger.Info("Order %s processed: %d/%d bookings synced", order.Number, successCount, len(bookings))
	e.runs.Finish(run, successCount, len(bookings)-successCount)
	return successCount > 0
}

// SyncBooking upserts one booking as an ERP service product. A product
// already carrying the composite external id is left untouched.
func (e *Engine) SyncBooking(b *woo.Booking) bool {
	formatted, err := formatBookingDate(b.BookingDate)
	if err != nil {
		e.logger.Error("Failed to sync booking for order %d: %v", b.OrderID, err)
		return false
	}

	productName := fmt.Sprintf("%s - %s", b.ProductName, formatted)
	if b.Persons > 1 {
		productName += fmt.Sprintf(" (%d persons)", b.Persons)
	}

	externalID := bookingExternalID(b)
	data := odoo.ProductData{
		Name:        productName,
		SKU:         "BOOKING_" + externalID,
		Price:       b.Total,
		WooID:       externalID,
		BookingDate: formatted,
		Persons:     b.Persons,
		Description: fmt.Sprintf("Class booked from WooCommerce\nOrder: #%s\nDate: %s\nPersons: %d",
			b.OrderNumber, formatted, b.Persons),
	}

	productID, err := e.odoo.GetOrCreateProduct(data)
	if err != nil || productID == 0 {
		e.logger.Error("Failed to create product in Odoo: %s", productName)
		return false
	}

	e.logger.Info("Product synced to Odoo: %s", productName)
	return true
}

// ProcessCustomer syncs one storefront customer to an ERP partner.
func (e *Engine) ProcessCustomer(customer *woo.Customer) bool {
	run := e.runs.Start(models.SyncTriggerWebhookCustomer, strconv.FormatInt(customer.ID, 10))

	ok := e.syncCustomer(customer)
	if ok {
		e.runs.Finish(run, 1, 0)
	} else {
		e.runs.RecordError(run, "customer", strconv.FormatInt(customer.ID, 10), "customer sync failed")
		e.runs.Finish(run, 0, 1)
	}
	return ok
}

func (e *Engine) syncCustomer(customer *woo.Customer) bool {
	e.logger.Info("Processing customer: %s", customer.Email)

	data := odoo.CustomerData{
		Name:  strings.TrimSpace(customer.FirstName + " " + customer.LastName),
		Email: customer.Email,
		Phone: customer.Billing.Phone,
		WooID: strconv.FormatInt(customer.ID, 10),
	}

	partnerID, err := e.odoo.GetOrCreateCustomer(data)
	if err != nil || partnerID == 0 {
		e.logger.Error("Failed to sync customer: %s", customer.Email)
		return false
	}

	e.logger.Info("Customer synced to Odoo: %s", customer.Email)
	return true
}

// createSaleOrder creates the sale order header and one line per booking
// whose service product resolves by its composite external id. A line whose
// quantity cannot yield a unit price fails alone; it never aborts the order.
func (e *Engine) createSaleOrder(order *woo.Order, bookings []woo.Booking) (int64, error) {
	partnerID, err := e.odoo.GetOrCreateCustomer(odoo.CustomerData{
		Name:  strings.TrimSpace(order.Billing.FirstName + " " + order.Billing.LastName),
		Email: order.Billing.Email,
		Phone: order.Billing.Phone,
		WooID: strconv.FormatInt(order.CustomerID, 10),
	})
	if err != nil || partnerID == 0 {
		e.logger.Error("Could not resolve customer for order %s", order.Number)
		return 0, fmt.Errorf("could not resolve customer for order %s", order.Number)
	}

	orderID, err := e.odoo.CreateRecord("sale.order", map[string]interface{}{
		"partner_id":     partnerID,
		"x_woo_order_id": strconv.FormatInt(order.ID, 10),
		"origin":         "WooCommerce #" + order.Number,
		"date_order":     order.DateCreated,
		"state":          "draft",
		"note": fmt.Sprintf("Order imported from WooCommerce\nOriginal date: %s\nWC total: %s",
			order.DateCreated, order.Total),
	})
	if err != nil {
		e.logger.Error("Failed to create sale order in Odoo for %s", order.Number)
		return 0, err
	}

	for i := range bookings {
		b := &bookings[i]
		externalID := bookingExternalID(b)

		product := e.odoo.GetByExternalID("product.product", externalID)
		if product == nil {
			e.logger.Warn("No service product found for booking %s", externalID)
			continue
		}

		price, err := unitPrice(b.Total, b.Quantity)
		if err != nil {
			e.logger.Error("Skipping order line for booking %s: %v", externalID, err)
			continue
		}

		lineID, err := e.odoo.CreateRecord("sale.order.line", map[string]interface{}{
			"order_id":        orderID,
			"product_id":      odoo.RecordID(product),
			"product_uom_qty": b.Quantity,
			"price_unit":      price,
		})
		if err == nil && lineID != 0 {
			e.logger.Info("Order line created: %s", b.ProductName)
		}
	}

	e.logger.Info("Sale order created in Odoo: %d", orderID)
	return orderID, nil
}

// updateExistingOrder refreshes the note and maps the storefront status to
// an ERP state. Statuses other than completed and cancelled leave the state
// untouched.
func (e *Engine) updateExistingOrder(orderID int64, order *woo.Order) bool {
	fields := map[string]interface{}{
		"note": fmt.Sprintf("Order updated from WooCommerce\nLast sync: %s\nWC total: %s",
			time.Now().Format(time.RFC3339), order.Total),
	}

	switch order.Status {
	case "completed":
		fields["state"] = "sale"
	case "cancelled":
		fields["state"] = "cancel"
	}

	if !e.odoo.UpdateRecord("sale.order", orderID, fields) {
		e.logger.Error("Failed to update order in Odoo: %d", orderID)
		return false
	}

	e.logger.Info("Order updated in Odoo: %d", orderID)
	return true
}

func bookingExternalID(b *woo.Booking) string {
	return fmt.Sprintf("%d_%d", b.OrderID, b.ProductID)
}

// unitPrice divides the line total by the quantity. The storefront carries
// no per-unit price field, so a non-positive quantity is an explicit error
// rather than a division by zero.
func unitPrice(total float64, quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("cannot compute unit price for quantity %d", quantity)
	}
	price := decimal.NewFromFloat(total).Div(decimal.NewFromInt(int64(quantity)))
	f, _ := price.Float64()
	return f, nil
}

// formatBookingDate reformats ISO-8601 timestamps to "YYYY-MM-DD HH:MM".
// Raw values without a time component pass through unchanged.
func formatBookingDate(raw string) (string, error) {
	if !strings.Contains(raw, "T") {
		return raw, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognized booking date format: %q", raw)
}
