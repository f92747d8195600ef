package woo

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GetBookingOrders fetches completed orders and keeps only those whose line
// items carry metadata with a key containing "booking". That substring is
// the sole heuristic for a bookable class.
func (c *Client) GetBookingOrders(after string) ([]Order, error) {
	orders, err := c.GetOrders("completed", 100, 1, after, "")
	if err != nil {
		return []Order{}, err
	}

	bookingOrders := make([]Order, 0, len(orders))
	for _, order := range orders {
		if HasBookingMeta(&order) {
			bookingOrders = append(bookingOrders, order)
		}
	}
	return bookingOrders, nil
}

// GetRecentBookings flattens the booking orders created in the trailing
// window into bookings.
func (c *Client) GetRecentBookings(hours int) ([]Booking, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour).Format(time.RFC3339)

	orders, err := c.GetBookingOrders(cutoff)
	if err != nil {
		return []Booking{}, err
	}

	var bookings []Booking
	for _, order := range orders {
		bookings = append(bookings, ExtractBookings(&order)...)
	}
	return bookings, nil
}

// HasBookingMeta reports whether any line item carries booking metadata.
func HasBookingMeta(order *Order) bool {
	for _, item := range order.LineItems {
		for _, meta := range item.MetaData {
			if strings.Contains(strings.ToLower(meta.Key), "booking") {
				return true
			}
		}
	}
	return false
}

// ExtractBookings builds one Booking per line item. Metadata keys are
// scanned case-insensitively in wire order; when several keys match the
// same category the last one wins. A line without a date key falls back to
// the order's creation timestamp, and persons defaults to 1.
func ExtractBookings(order *Order) []Booking {
	bookings := make([]Booking, 0, len(order.LineItems))

	for _, item := range order.LineItems {
		booking := Booking{
			OrderID:     order.ID,
			OrderNumber: order.Number,
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Total:       parseAmount(item.Total),
			Persons:     1,
			Customer: BookingCustomer{
				ID:    order.CustomerID,
				Email: order.Billing.Email,
				Name:  strings.TrimSpace(order.Billing.FirstName + " " + order.Billing.LastName),
				Phone: order.Billing.Phone,
			},
		}

		dateSet := false
		for _, meta := range item.MetaData {
			key := strings.ToLower(meta.Key)
			value := metaValueString(meta.Value)

			switch {
			case strings.Contains(key, "booking_date") || strings.Contains(key, "from"):
				booking.BookingDate = value
				dateSet = true
			case strings.Contains(key, "person"):
				booking.Persons = parsePersons(value)
			case strings.Contains(key, "duration"):
				booking.Duration = value
			case strings.Contains(key, "to") && !dateSet:
				booking.BookingEnd = value
			}
		}

		if !dateSet {
			booking.BookingDate = order.DateCreated
		}

		bookings = append(bookings, booking)
	}

	return bookings
}

func metaValueString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", value)
}

// parsePersons accepts only plain digit strings; anything else means 1.
func parsePersons(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 1
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 1
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 1
	}
	return n
}

func parseAmount(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}
