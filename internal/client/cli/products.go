package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/BraisonWabwire/shopke-cli/internal/client/api"
	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
)

// Products renders the catalog. Any logged-in user may browse; customers
// add items from here, owners see which of the products are theirs.
func (a *App) Products(ctx context.Context) error {
	if !a.requireRole(ctx, models.RoleAny) {
		return nil
	}

	wasAnonymous := !a.isLoggedIn()
	products, err := a.apiClient.ListProducts(ctx)
	if err != nil {
		// An anonymous rejection never goes through session teardown, so
		// the hint has to come from here.
		if wasAnonymous && errors.Is(err, api.ErrUnauthorized) {
			fmt.Fprintln(a.out, "This catalog requires an account. Please log in first.")
			return nil
		}
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products yet.")
		return nil
	}

	identity := a.sessions.Identity()
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tSELLER")
	for _, p := range products {
		seller := ""
		if p.Owner != nil {
			seller = p.Owner.Username
			if identity != nil && p.Owner.ID == identity.ID {
				seller += " (you)"
			}
		}
		stock := strconv.Itoa(p.StockQuantity)
		switch {
		case p.StockQuantity == 0:
			stock = "out of stock"
		case p.LowStock():
			stock += " (low)"
		}
		fmt.Fprintf(w, "%d\t%s\tKSh %s\t%s\t%s\n", p.ID, p.Name, p.Price, stock, seller)
	}
	return w.Flush()
}

// AddToCart puts a catalog product into the customer's cart:
// add <product-id> [quantity].
func (a *App) AddToCart(ctx context.Context, args []string) error {
	if !a.requireRole(ctx, models.RoleCustomer) {
		return nil
	}
	if len(args) < 1 {
		fmt.Fprintln(a.out, "Usage: add <product-id> [quantity]")
		return nil
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid product id %q.\n", args[0])
		return nil
	}
	quantity := 1
	if len(args) > 1 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(a.out, "Invalid quantity %q.\n", args[1])
			return nil
		}
	}

	if err := a.cart.Add(ctx, productID, quantity); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added to cart. You now have %d item(s).\n", a.cart.BadgeCount())
	return nil
}

// DeleteProduct removes one of the owner's own products from the catalog:
// delproduct <product-id>. Deleting someone else's product is refused
// before any request is made.
func (a *App) DeleteProduct(ctx context.Context, args []string) error {
	if !a.requireRole(ctx, models.RoleOwner) {
		return nil
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delproduct <product-id>")
		return nil
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid product id %q.\n", args[0])
		return nil
	}

	products, err := a.apiClient.ListProducts(ctx)
	if err != nil {
		return err
	}
	var target *models.Product
	for i := range products {
		if products[i].ID == productID {
			target = &products[i]
			break
		}
	}
	if target == nil {
		fmt.Fprintf(a.out, "No product with id %d.\n", productID)
		return nil
	}
	identity := a.sessions.Identity()
	if target.Owner == nil || identity == nil || target.Owner.ID != identity.ID {
		fmt.Fprintln(a.out, "You can only delete your own products.")
		return nil
	}

	if !Confirm(a.reader, fmt.Sprintf("Delete %q?", target.Name), a.out) {
		return nil
	}
	if err := a.apiClient.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %q.\n", target.Name)
	return nil
}
