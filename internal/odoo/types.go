package odoo

// CustomerData carries the fields the partner upsert needs.
type CustomerData struct {
	Name  string
	Email string
	Phone string
	WooID string
}

// ProductData carries the fields the service-product upsert needs.
type ProductData struct {
	Name        string
	SKU         string
	Price       float64
	WooID       string
	BookingDate string
	Persons     int
	Description string
}

// RecordID pulls the id out of a read record.
func RecordID(record map[string]interface{}) int64 {
	return toInt64(record["id"])
}

// StringField reads a string field, treating Odoo's boolean false for an
// unset field as empty.
func StringField(record map[string]interface{}, key string) string {
	if record == nil {
		return ""
	}
	if s, ok := record[key].(string); ok {
		return s
	}
	return ""
}

// FloatField reads a numeric field, accepting the integer encodings the
// XML-RPC layer may produce.
func FloatField(record map[string]interface{}, key string) float64 {
	if record == nil {
		return 0
	}
	switch v := record[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func toInt64Slice(v interface{}) []int64 {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(raw))
	for _, item := range raw {
		if id := toInt64(item); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func toRecordSlice(v interface{}) []map[string]interface{} {
	raw, ok := v.([]interface{})
	if !ok {
		return []map[string]interface{}{}
	}
	records := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if record, ok := item.(map[string]interface{}); ok {
			records = append(records, record)
		}
	}
	return records
}
