package odoo

import (
	"fmt"
	"strings"
	"sync"

	"woosync/internal/config"
	"woosync/internal/logger"

	"github.com/kolo/xmlrpc"
)

// caller abstracts the XML-RPC transport so tests can substitute a fake.
// *xmlrpc.Client satisfies it.
type caller interface {
	Call(serviceMethod string, args interface{}, reply interface{}) error
}

// Client talks to Odoo through the external XML-RPC API. A uid is cached
// after the first successful authentication; every call re-authenticates
// lazily when it is absent. Concurrent callers may race on the cached uid,
// which only costs an extra authentication round trip.
type Client struct {
	db       string
	username string
	apiKey   string
	common   caller
	object   caller
	logger   *logger.Logger

	mu  sync.Mutex
	uid int64
}

func NewClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	base := strings.TrimRight(cfg.OdooURL, "/")

	common, err := xmlrpc.NewClient(base+"/xmlrpc/2/common", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create common endpoint client: %w", err)
	}
	object, err := xmlrpc.NewClient(base+"/xmlrpc/2/object", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create object endpoint client: %w", err)
	}

	return &Client{
		db:       cfg.OdooDB,
		username: cfg.OdooUsername,
		apiKey:   cfg.OdooAPIKey,
		common:   common,
		object:   object,
		logger:   log,
	}, nil
}

// Authenticate obtains a uid from the credentials. Odoo answers boolean
// false on bad credentials, which is treated as a failure, not a crash.
func (c *Client) Authenticate() bool {
	var reply interface{}
	err := c.common.Call("authenticate", []interface{}{
		c.db, c.username, c.apiKey, map[string]interface{}{},
	}, &reply)
	if err != nil {
		c.logger.Error("Odoo authentication error: %v", err)
		return false
	}

	uid := toInt64(reply)
	if uid == 0 {
		c.logger.Error("Odoo authentication failed for user %s", c.username)
		return false
	}

	c.mu.Lock()
	c.uid = uid
	c.mu.Unlock()
	c.logger.Info("Authenticated with Odoo, uid=%d", uid)
	return true
}

func (c *Client) currentUID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uid
}

func (c *Client) execKw(model, method string, args []interface{}, kwargs map[string]interface{}, reply *interface{}) error {
	if c.currentUID() == 0 {
		if !c.Authenticate() {
			return fmt.Errorf("not authenticated with Odoo")
		}
	}
	if kwargs == nil {
		kwargs = map[string]interface{}{}
	}
	return c.object.Call("execute_kw", []interface{}{
		c.db, c.currentUID(), c.apiKey, model, method, args, kwargs,
	}, reply)
}

// CreateRecord creates one record and returns its id.
func (c *Client) CreateRecord(model string, fields map[string]interface{}) (int64, error) {
	var reply interface{}
	err := c.execKw(model, "create", []interface{}{fields}, nil, &reply)
	if err != nil {
		c.logger.Error("Failed to create %s record: %v", model, err)
		return 0, err
	}

	id := toInt64(reply)
	if id == 0 {
		c.logger.Error("Odoo returned no id creating %s record", model)
		return 0, fmt.Errorf("no id returned creating %s record", model)
	}
	c.logger.Info("Created %s record %d", model, id)
	return id, nil
}

// UpdateRecord writes fields on an existing record and reports success.
func (c *Client) UpdateRecord(model string, id int64, fields map[string]interface{}) bool {
	var reply interface{}
	err := c.execKw(model, "write", []interface{}{[]int64{id}, fields}, nil, &reply)
	if err != nil {
		c.logger.Error("Failed to update %s record %d: %v", model, id, err)
		return false
	}
	ok, _ := reply.(bool)
	if ok {
		c.logger.Debug("Updated %s record %d", model, id)
	}
	return ok
}

// SearchRecords runs a search followed by a read. It returns an empty slice
// on no match and on transport failure alike; callers cannot tell the two
// apart.
func (c *Client) SearchRecords(model string, domain []interface{}, fields []string, limit int) []map[string]interface{} {
	if domain == nil {
		domain = []interface{}{}
	}

	searchKwargs := map[string]interface{}{}
	if limit > 0 {
		searchKwargs["limit"] = limit
	}

	var idsReply interface{}
	if err := c.execKw(model, "search", []interface{}{domain}, searchKwargs, &idsReply); err != nil {
		c.logger.Error("Failed to search %s: %v", model, err)
		return []map[string]interface{}{}
	}

	ids := toInt64Slice(idsReply)
	if len(ids) == 0 {
		return []map[string]interface{}{}
	}

	readKwargs := map[string]interface{}{}
	if len(fields) > 0 {
		readKwargs["fields"] = fields
	}

	var recordsReply interface{}
	if err := c.execKw(model, "read", []interface{}{ids}, readKwargs, &recordsReply); err != nil {
		c.logger.Error("Failed to read %s records: %v", model, err)
		return []map[string]interface{}{}
	}

	return toRecordSlice(recordsReply)
}

// GetByExternalID looks a record up by its storefront id, limit 1.
func (c *Client) GetByExternalID(model, externalID string) map[string]interface{} {
	records := c.SearchRecords(model, []interface{}{
		[]interface{}{ExternalIDField(model), "=", externalID},
	}, nil, 1)
	if len(records) == 0 {
		return nil
	}
	return records[0]
}

// GetOrCreateCustomer resolves a partner by external id first, then by exact
// email match. An email match lacking the external id gets it backfilled.
// Only when both lookups miss is a new partner created.
func (c *Client) GetOrCreateCustomer(data CustomerData) (int64, error) {
	if data.WooID != "" {
		if existing := c.GetByExternalID("res.partner", data.WooID); existing != nil {
			return RecordID(existing), nil
		}
	}

	existing := c.SearchRecords("res.partner", []interface{}{
		[]interface{}{"email", "=", data.Email},
	}, nil, 1)
	if len(existing) > 0 {
		id := RecordID(existing[0])
		if data.WooID != "" {
			c.UpdateRecord("res.partner", id, map[string]interface{}{
				"x_woo_id": data.WooID,
			})
		}
		return id, nil
	}

	return c.CreateRecord("res.partner", map[string]interface{}{
		"name":          data.Name,
		"email":         data.Email,
		"phone":         data.Phone,
		"x_woo_id":      data.WooID,
		"is_company":    false,
		"customer_rank": 1,
	})
}

// GetOrCreateProduct resolves a service product by external id or creates
// it. A matched product is never updated; it is treated as already synced.
func (c *Client) GetOrCreateProduct(data ProductData) (int64, error) {
	if data.WooID != "" {
		if existing := c.GetByExternalID("product.product", data.WooID); existing != nil {
			return RecordID(existing), nil
		}
	}

	return c.CreateRecord("product.product", map[string]interface{}{
		"name":           data.Name,
		"default_code":   data.SKU,
		"list_price":     data.Price,
		"type":           "service",
		"sale_ok":        true,
		"purchase_ok":    false,
		"x_woo_id":       data.WooID,
		"x_booking_date": data.BookingDate,
		"x_persons":      data.Persons,
		"description":    data.Description,
	})
}

// ExternalIDField names the custom field carrying the storefront id.
func ExternalIDField(model string) string {
	if model == "sale.order" {
		return "x_woo_order_id"
	}
	return "x_woo_id"
}
