package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/BraisonWabwire/shopke-cli/internal/client/api"
	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
)

// lowStockThreshold marks products the owner should restock soon.
const lowStockThreshold = 10

// Stats are the owner dashboard aggregates.
type Stats struct {
	TotalProducts    int
	LowStockProducts int
	TotalOrders      int
	TotalSales       models.Money
}

// DashboardService computes owner dashboard aggregates from the catalog and
// order listings.
type DashboardService struct {
	client api.Client
}

func NewDashboardService(client api.Client) *DashboardService {
	return &DashboardService{client: client}
}

// Stats fetches products and orders concurrently and folds them into the
// dashboard numbers.
func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	var (
		products []models.Product
		orders   []models.Order
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.client.ListProducts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.client.ListOrders(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &Stats{TotalProducts: len(products), TotalOrders: len(orders)}
	for _, p := range products {
		if p.StockQuantity <= lowStockThreshold {
			stats.LowStockProducts++
		}
	}
	for _, o := range orders {
		stats.TotalSales += o.TotalAmount
	}
	return stats, nil
}
