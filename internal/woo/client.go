package woo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"woosync/internal/config"
	"woosync/internal/logger"
)

// Client is an authenticated REST client for the WooCommerce v3 API.
type Client struct {
	apiURL         string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	logger         *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		apiURL:         strings.TrimRight(cfg.WooURL, "/") + "/wp-json/wc/v3",
		consumerKey:    cfg.WooConsumerKey,
		consumerSecret: cfg.WooConsumerSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// doRequest performs one authenticated call and returns the raw payload.
// Non-2xx responses and transport errors come back as errors, logged here.
func (c *Client) doRequest(method, path string, body interface{}, params url.Values) ([]byte, error) {
	endpoint := c.apiURL + "/" + strings.TrimLeft(path, "/")

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("WooCommerce request failed: %s %s: %v", method, path, err)
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("WooCommerce API error: %d - %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// GetOrders fetches orders, optionally filtered by status and a created-at
// window.
func (c *Client) GetOrders(status string, perPage, page int, after, before string) ([]Order, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	if status != "" {
		params.Set("status", status)
	}
	if after != "" {
		params.Set("after", after)
	}
	if before != "" {
		params.Set("before", before)
	}

	body, err := c.doRequest(http.MethodGet, "orders", nil, params)
	if err != nil {
		return []Order{}, err
	}

	var orders []Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return []Order{}, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (c *Client) GetOrder(orderID int64) (*Order, error) {
	body, err := c.doRequest(http.MethodGet, fmt.Sprintf("orders/%d", orderID), nil, nil)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &order, nil
}

func (c *Client) UpdateOrder(orderID int64, data map[string]interface{}) (*Order, error) {
	body, err := c.doRequest(http.MethodPut, fmt.Sprintf("orders/%d", orderID), data, nil)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &order, nil
}

func (c *Client) GetProducts(perPage, page int, productType string) ([]Product, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	if productType != "" {
		params.Set("type", productType)
	}

	body, err := c.doRequest(http.MethodGet, "products", nil, params)
	if err != nil {
		return []Product{}, err
	}

	var products []Product
	if err := json.Unmarshal(body, &products); err != nil {
		return []Product{}, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (c *Client) GetProduct(productID int64) (*Product, error) {
	body, err := c.doRequest(http.MethodGet, fmt.Sprintf("products/%d", productID), nil, nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &product, nil
}

func (c *Client) CreateProduct(data map[string]interface{}) (*Product, error) {
	body, err := c.doRequest(http.MethodPost, "products", data, nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &product, nil
}

func (c *Client) UpdateProduct(productID int64, data map[string]interface{}) (*Product, error) {
	body, err := c.doRequest(http.MethodPut, fmt.Sprintf("products/%d", productID), data, nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &product, nil
}

func (c *Client) GetCustomers(perPage, page int) ([]Customer, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	body, err := c.doRequest(http.MethodGet, "customers", nil, params)
	if err != nil {
		return []Customer{}, err
	}

	var customers []Customer
	if err := json.Unmarshal(body, &customers); err != nil {
		return []Customer{}, fmt.Errorf("failed to decode customers: %w", err)
	}
	return customers, nil
}

func (c *Client) GetCustomer(customerID int64) (*Customer, error) {
	body, err := c.doRequest(http.MethodGet, fmt.Sprintf("customers/%d", customerID), nil, nil)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	return &customer, nil
}

func (c *Client) CreateCustomer(data map[string]interface{}) (*Customer, error) {
	body, err := c.doRequest(http.MethodPost, "customers", data, nil)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	return &customer, nil
}

func (c *Client) UpdateCustomer(customerID int64, data map[string]interface{}) (*Customer, error) {
	body, err := c.doRequest(http.MethodPut, fmt.Sprintf("customers/%d", customerID), data, nil)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	return &customer, nil
}
