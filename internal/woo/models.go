package woo

// Order represents a WooCommerce order as delivered by the REST API or a
// webhook payload. Monetary amounts arrive as strings on the wire.
type Order struct {
	ID          int64      `json:"id"`
	Number      string     `json:"number"`
	Status      string     `json:"status"`
	CustomerID  int64      `json:"customer_id"`
	DateCreated string     `json:"date_created"`
	Total       string     `json:"total"`
	Billing     Billing    `json:"billing"`
	LineItems   []LineItem `json:"line_items"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type LineItem struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"product_id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	Total     string     `json:"total"`
	MetaData  []MetaData `json:"meta_data"`
}

// MetaData is a loosely typed key/value pair attached to a line item.
// Booking plugins store their data here, each under its own key names.
type MetaData struct {
	ID    int64       `json:"id"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Product represents a WooCommerce catalog product.
type Product struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	SKU          string `json:"sku"`
	RegularPrice string `json:"regular_price"`
	Description  string `json:"description"`
}

// Customer represents a WooCommerce customer.
type Customer struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Billing   Billing `json:"billing"`
}

// Booking is the transfer object extracted from one order line item. It is
// never persisted; it only exists for the duration of a sync pass.
type Booking struct {
	OrderID     int64
	OrderNumber string
	ProductID   int64
	ProductName string
	Quantity    int
	Total       float64
	Customer    BookingCustomer
	BookingDate string
	BookingEnd  string
	Duration    string
	Persons     int
}

type BookingCustomer struct {
	ID    int64
	Email string
	Name  string
	Phone string
}
