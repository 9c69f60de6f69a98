package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/BraisonWabwire/shopke-cli/internal/client/api"
	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
)

// AddProduct walks an owner through the new-product form and submits it.
// Price and stock go to the server as entered; server-side validation
// errors come back field by field.
func (a *App) AddProduct(ctx context.Context) error {
	if !a.requireRole(ctx, models.RoleOwner) {
		return nil
	}

	name, err := GetSimpleText(a.reader, "Product name", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	price, err := GetSimpleText(a.reader, "Price (KSh)", a.out)
	if err != nil {
		return err
	}
	stock, err := GetSimpleText(a.reader, "Stock quantity", a.out)
	if err != nil {
		return err
	}
	barcode, err := GetSimpleText(a.reader, "Barcode (optional)", a.out)
	if err != nil {
		return err
	}
	sku, err := GetSimpleText(a.reader, "SKU (optional)", a.out)
	if err != nil {
		return err
	}
	imagePath, err := GetSimpleText(a.reader, "Image file (optional)", a.out)
	if err != nil {
		return err
	}
	if imagePath != "" {
		if _, err := os.Stat(imagePath); err != nil {
			fmt.Fprintf(a.out, "Cannot read image file %q, skipping the upload.\n", imagePath)
			imagePath = ""
		}
	}

	product, err := a.apiClient.AddProduct(ctx, api.NewProduct{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stock,
		Barcode:       barcode,
		SKU:           sku,
		ImagePath:     imagePath,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %q (id %d) at KSh %s.\n", product.Name, product.ID, product.Price)
	return nil
}
