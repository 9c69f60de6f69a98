package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
)

// Dashboard renders the shop overview for owners: catalog size, low-stock
// count, order count and total sales.
func (a *App) Dashboard(ctx context.Context) error {
	if !a.requireRole(ctx, models.RoleOwner) {
		return nil
	}

	stats, err := a.dashboard.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Shop overview")
	fmt.Fprintf(a.out, "  Products:    %d\n", stats.TotalProducts)
	fmt.Fprintf(a.out, "  Low stock:   %d\n", stats.LowStockProducts)
	fmt.Fprintf(a.out, "  Orders:      %d\n", stats.TotalOrders)
	fmt.Fprintf(a.out, "  Total sales: KSh %s\n", stats.TotalSales)
	return nil
}

// Orders lists the owner's orders with their status and amounts.
func (a *App) Orders(ctx context.Context) error {
	if !a.requireRole(ctx, models.RoleOwner) {
		return nil
	}

	orders, err := a.apiClient.ListOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tAMOUNT\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\tKSh %s\t%s\n", o.ID, o.Status, o.TotalAmount, o.CreatedAt)
	}
	return w.Flush()
}
