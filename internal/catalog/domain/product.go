package domain

import (
	"context"
	"fmt"
	"strconv"
)

// ProductType is the storage temperature class of a product.
type ProductType string

const (
	ProductTypeAmbient      ProductType = "Ambient"
	ProductTypeRefrigerated ProductType = "Refrigerated"
	ProductTypeFrozen       ProductType = "Frozen"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeAmbient, ProductTypeRefrigerated, ProductTypeFrozen:
		return true
	}
	return false
}

// TargetLabel marks which customer segment the product is labeled for.
type TargetLabel string

const (
	TargetLabelRegular TargetLabel = "Regular Customer"
	TargetLabelTarget  TargetLabel = "Target"
)

func (t TargetLabel) Valid() bool {
	return t == TargetLabelRegular || t == TargetLabelTarget
}

// CountryLabel marks the labeling country.
type CountryLabel string

const (
	CountryLabelUS     CountryLabel = "US"
	CountryLabelCanada CountryLabel = "Canada"
)

func (c CountryLabel) Valid() bool {
	return c == CountryLabelUS || c == CountryLabelCanada
}

// ProductForm is the creation payload: a Product without its identity.
// Counts stay string-encoded, matching the stored document shape.
type ProductForm struct {
	Name            string       `json:"name"`
	ItemNumber      string       `json:"itemNumber"`
	ProductType     ProductType  `json:"productType"`
	CasesPerPallet  string       `json:"casesPerPallet"`
	ShelfLifeInDays string       `json:"shelfLifeInDays"`
	TargetLabel     TargetLabel  `json:"targetLabel"`
	CountryLabel    CountryLabel `json:"countryLabel"`
}

// Validate checks required fields and enum membership.
func (f ProductForm) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	if f.ItemNumber == "" {
		return fmt.Errorf("itemNumber is required")
	}
	if !f.ProductType.Valid() {
		return fmt.Errorf("invalid productType %q", f.ProductType)
	}
	if !f.TargetLabel.Valid() {
		return fmt.Errorf("invalid targetLabel %q", f.TargetLabel)
	}
	if !f.CountryLabel.Valid() {
		return fmt.Errorf("invalid countryLabel %q", f.CountryLabel)
	}
	return nil
}

// Product is one catalog entry.
type Product struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ItemNumber      string       `json:"itemNumber"`
	ProductType     ProductType  `json:"productType"`
	CasesPerPallet  string       `json:"casesPerPallet"`
	ShelfLifeInDays string       `json:"shelfLifeInDays"`
	TargetLabel     TargetLabel  `json:"targetLabel"`
	CountryLabel    CountryLabel `json:"countryLabel"`
}

// CasesPerPalletCount parses the string-encoded pallet size. The second
// return is false when the value is absent or not a positive number.
func (p Product) CasesPerPalletCount() (int, bool) {
	n, err := strconv.Atoi(p.CasesPerPallet)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Repository is the catalog data access contract.
type Repository interface {
	Create(ctx context.Context, orgID string, form ProductForm) (*Product, error)
	// CreateBulk stores all products or none of them.
	CreateBulk(ctx context.Context, orgID string, forms []ProductForm) error
	List(ctx context.Context, orgID string) ([]Product, error)
	// Search matches keyword exactly against name and itemNumber and
	// returns the deduplicated union, unordered.
	Search(ctx context.Context, orgID, keyword string) ([]Product, error)
	// Subscribe delivers the full product list on every collection change.
	Subscribe(orgID string, onUpdate func([]Product)) (cancel func())
}
