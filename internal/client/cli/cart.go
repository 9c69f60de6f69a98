package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
)

// deliveryFee is the flat delivery estimate shown below the cart total.
const deliveryFee models.Money = 300

// CartScreen fetches the cart fresh from the server and renders it. The
// rendered numbers are always the server's, never locally derived.
func (a *App) CartScreen(ctx context.Context) error {
	if !a.requireRole(ctx, models.RoleCustomer) {
		return nil
	}
	if err := a.cart.FetchCart(ctx); err != nil {
		return err
	}

	cart := a.cart.Cart()
	if cart == nil || len(cart.Items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tPRICE\tQTY\tSUBTOTAL")
	for _, it := range cart.Items {
		fmt.Fprintf(w, "%d\t%s\tKSh %s\t%d\tKSh %s\n",
			it.ID, it.Product.Name, it.Product.Price, it.Quantity, it.Subtotal)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nSubtotal (%d items):\tKSh %s\n", cart.TotalItems, cart.TotalPrice)
	fmt.Fprintf(a.out, "Delivery (estimate):\tKSh %s\n", deliveryFee)
	fmt.Fprintf(a.out, "Total:\t\t\tKSh %s\n", cart.TotalPrice+deliveryFee)
	fmt.Fprintln(a.out, "\nCheckout from the terminal is not available yet.")
	return nil
}

// Increment raises a cart line's quantity by one: inc <item-id>.
func (a *App) Increment(ctx context.Context, args []string) error {
	return a.adjustQuantity(ctx, args, +1, "inc")
}

// Decrement lowers a cart line's quantity by one: dec <item-id>. At
// quantity 1 this does nothing; removal is its own command.
func (a *App) Decrement(ctx context.Context, args []string) error {
	return a.adjustQuantity(ctx, args, -1, "dec")
}

func (a *App) adjustQuantity(ctx context.Context, args []string, delta int, verb string) error {
	if !a.requireRole(ctx, models.RoleCustomer) {
		return nil
	}
	if len(args) != 1 {
		fmt.Fprintf(a.out, "Usage: %s <item-id>\n", verb)
		return nil
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid item id %q.\n", args[0])
		return nil
	}

	cart := a.cart.Cart()
	if cart == nil {
		if err := a.cart.FetchCart(ctx); err != nil {
			return err
		}
		cart = a.cart.Cart()
	}
	item := cart.Item(itemID)
	if item == nil {
		fmt.Fprintf(a.out, "No cart item with id %d.\n", itemID)
		return nil
	}

	if err := a.cart.SetQuantity(ctx, itemID, item.Quantity+delta); err != nil {
		return err
	}
	if updated := a.cart.Cart().Item(itemID); updated != nil {
		fmt.Fprintf(a.out, "%s: quantity %d\n", updated.Product.Name, updated.Quantity)
	}
	return nil
}

// Remove deletes a cart line after confirmation: remove <item-id>.
func (a *App) Remove(ctx context.Context, args []string) error {
	if !a.requireRole(ctx, models.RoleCustomer) {
		return nil
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: remove <item-id>")
		return nil
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid item id %q.\n", args[0])
		return nil
	}

	if err := a.cart.RemoveItem(ctx, itemID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cart has %d item(s).\n", a.cart.BadgeCount())
	return nil
}
