package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commands is what the REPL dispatches to. *App is the real implementation;
// tests substitute a recorder.
type commands interface {
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error

	Products(ctx context.Context) error
	AddToCart(ctx context.Context, args []string) error
	CartScreen(ctx context.Context) error
	Increment(ctx context.Context, args []string) error
	Decrement(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error

	Orders(ctx context.Context) error
	Dashboard(ctx context.Context) error
	AddProduct(ctx context.Context) error
	DeleteProduct(ctx context.Context, args []string) error
}

const helpText = `Commands:
  products            browse the catalog
  add <product> [qty] add a product to your cart
  cart                show your cart
  inc <item>          increase an item's quantity
  dec <item>          decrease an item's quantity
  remove <item>       remove an item from the cart
  orders              list orders
  dashboard           shop overview
  addproduct          add a product to your shop
  delproduct <id>     delete one of your products
  login / register / logout
  help, exit`

// runREPL reads commands line by line and dispatches them until EOF, an
// exit command, or ctx cancellation. Errors from commands go through
// onError; the loop itself never stops on a command failure.
func runREPL(ctx context.Context, exec commands, status func() string, onError func(error), scanner *bufio.Scanner, out io.Writer) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Fprintf(out, "shopke%s> ", status())
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		case "login":
			onError(exec.Login(ctx))
		case "register":
			onError(exec.Register(ctx))
		case "logout":
			onError(exec.Logout(ctx))
		case "products":
			onError(exec.Products(ctx))
		case "add":
			onError(exec.AddToCart(ctx, args))
		case "cart":
			onError(exec.CartScreen(ctx))
		case "inc":
			onError(exec.Increment(ctx, args))
		case "dec":
			onError(exec.Decrement(ctx, args))
		case "remove":
			onError(exec.Remove(ctx, args))
		case "orders":
			onError(exec.Orders(ctx))
		case "dashboard":
			onError(exec.Dashboard(ctx))
		case "addproduct":
			onError(exec.AddProduct(ctx))
		case "delproduct":
			onError(exec.DeleteProduct(ctx, args))
		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help' for the list.\n", cmd)
		}
	}
}
