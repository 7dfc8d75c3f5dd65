package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Storefront/internal/catalog"
)

var (
	ErrProductNotFound    = errors.New("catalog product not found")
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// ProductSource resolves product ids to full catalog records.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

type CatalogClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *CatalogClient) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/products/id/"+url.PathEscape(id), nil)
	if err != nil {
		return catalog.Product{}, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return catalog.Product{}, ErrProductNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return catalog.Product{}, fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode)
	}

	var p catalog.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return catalog.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return p, nil
}

// LocalCatalog serves products from an in-process catalog.
type LocalCatalog struct {
	Catalog *catalog.Catalog
}

func (l LocalCatalog) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	p, ok := l.Catalog.ByID(id)
	if !ok {
		return catalog.Product{}, ErrProductNotFound
	}
	return p, nil
}
