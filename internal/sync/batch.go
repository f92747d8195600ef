package sync

import (
	"strconv"
	"time"

	"woosync/internal/models"
	"woosync/internal/odoo"
)

// ScheduledSync upserts the bookings created in the trailing two hours.
// Errors are logged and recorded, never propagated; a failed run produces
// zero items rather than raising.
func (e *Engine) ScheduledSync() {
	run := e.runs.Start(models.SyncTriggerScheduled, "")
	e.logger.Info("Starting scheduled sync")

	bookings, err := e.woo.GetRecentBookings(2)
	if err != nil {
		e.logger.Error("Scheduled sync failed fetching bookings: %v", err)
		e.runs.RecordError(run, "booking", "", err.Error())
		e.runs.Finish(run, 0, 1)
		return
	}

	syncCount := 0
	errCount := 0
	for i := range bookings {
		if e.SyncBooking(&bookings[i]) {
			syncCount++
		} else {
			errCount++
			e.runs.RecordError(run, "booking", bookingExternalID(&bookings[i]), "booking sync failed")
		}
	}

	e.logger.Info("Scheduled sync completed: %d bookings synced", syncCount)
	e.runs.Finish(run, syncCount, errCount)
}

// ManualSync runs a synchronous pass over recent bookings and/or customers.
// Scope is one of all, orders, customers.
func (e *Engine) ManualSync(scope string, hours int) (int, int) {
	run := e.runs.Start(models.SyncTriggerManual, scope)
	e.logger.Info("Starting manual sync: %s (%dh window)", scope, hours)

	syncCount := 0
	errCount := 0

	if scope == "all" || scope == "orders" {
		bookings, err := e.woo.GetRecentBookings(hours)
		if err != nil {
			e.logger.Error("Manual sync failed fetching bookings: %v", err)
			e.runs.RecordError(run, "booking", "", err.Error())
			errCount++
		}
		for i := range bookings {
			if e.SyncBooking(&bookings[i]) {
				syncCount++
			} else {
				errCount++
				e.runs.RecordError(run, "booking", bookingExternalID(&bookings[i]), "booking sync failed")
			}
		}
	}

	if scope == "all" || scope == "customers" {
		customers, err := e.woo.GetCustomers(100, 1)
		if err != nil {
			e.logger.Error("Manual sync failed fetching customers: %v", err)
			e.runs.RecordError(run, "customer", "", err.Error())
			errCount++
		}
		for i := range customers {
			if e.syncCustomer(&customers[i]) {
				syncCount++
			} else {
				errCount++
				e.runs.RecordError(run, "customer", strconv.FormatInt(customers[i].ID, 10), "customer sync failed")
			}
		}
	}

	e.logger.Info("Manual sync completed: %d records synced, %d errors", syncCount, errCount)
	e.runs.Finish(run, syncCount, errCount)
	return syncCount, errCount
}

// SyncOdooToWoo pushes sellable service products modified in the trailing
// 24 hours back to the storefront. Products without a numeric storefront
// external id are skipped; nothing is ever created on the storefront side.
func (e *Engine) SyncOdooToWoo() {
	run := e.runs.Start(models.SyncTriggerReverse, "")
	e.logger.Info("Starting Odoo to WooCommerce sync")

	yesterday := time.Now().Add(-24 * time.Hour).Format("2006-01-02 15:04:05")
	products := e.odoo.SearchRecords("product.product", []interface{}{
		[]interface{}{"write_date", ">=", yesterday},
		[]interface{}{"sale_ok", "=", true},
		[]interface{}{"type", "=", "service"},
	}, []string{"name", "default_code", "list_price", "x_woo_id", "description"}, 0)

	syncCount := 0
	for _, product := range products {
		if e.syncProductToWoo(product) {
			syncCount++
		}
	}

	e.logger.Info("Odoo to WooCommerce sync completed: %d products pushed", syncCount)
	e.runs.Finish(run, syncCount, 0)
}

func (e *Engine) syncProductToWoo(record map[string]interface{}) bool {
	wooID := odoo.StringField(record, "x_woo_id")
	if wooID == "" || wooID == "False" {
		return false
	}

	// Composite booking ids like "100_7" have no storefront counterpart.
	productID, err := strconv.ParseInt(wooID, 10, 64)
	if err != nil {
		return false
	}

	existing, err := e.woo.GetProduct(productID)
	if err != nil || existing == nil {
		return false
	}

	update := map[string]interface{}{
		"name":          odoo.StringField(record, "name"),
		"regular_price": strconv.FormatFloat(odoo.FloatField(record, "list_price"), 'f', -1, 64),
		"description":   odoo.StringField(record, "description"),
		"sku":           odoo.StringField(record, "default_code"),
	}

	if _, err := e.woo.UpdateProduct(productID, update); err != nil {
		return false
	}

	e.logger.Info("Product pushed to WooCommerce: %s", odoo.StringField(record, "name"))
	return true
}

// Statistics reports how much was synced in the trailing 24 hours, keyed
// off ERP creation timestamps and external-id presence.
type Statistics struct {
	ProductsSynced24h int    `json:"products_synced_24h"`
	OrdersSynced24h   int    `json:"orders_synced_24h"`
	LastCheck         string `json:"last_check"`
}

func (e *Engine) Statistics() Statistics {
	yesterday := time.Now().Add(-24 * time.Hour).Format("2006-01-02 15:04:05")

	products := e.odoo.SearchRecords("product.product", []interface{}{
		[]interface{}{"create_date", ">=", yesterday},
		[]interface{}{"x_woo_id", "!=", false},
	}, nil, 0)

	orders := e.odoo.SearchRecords("sale.order", []interface{}{
		[]interface{}{"create_date", ">=", yesterday},
		[]interface{}{"x_woo_order_id", "!=", false},
	}, nil, 0)

	return Statistics{
		ProductsSynced24h: len(products),
		OrdersSynced24h:   len(orders),
		LastCheck:         time.Now().Format(time.RFC3339),
	}
}

// CleanupRuns drops sync-run bookkeeping older than the retention window.
func (e *Engine) CleanupRuns(retentionDays int) {
	deleted := e.runs.Cleanup(time.Duration(retentionDays) * 24 * time.Hour)
	if deleted > 0 {
		e.logger.Info("Cleaned up %d old sync runs", deleted)
	}
}
