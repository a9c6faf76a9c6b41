package models

import "time"

// Product is a catalog entry sold in one or more color × size variants.
type Product struct {
	ID               string    `json:"id"               bson:"_id"              gorm:"primaryKey;size:36"`
	Name             string    `json:"name"             bson:"name"             gorm:"size:255;not null;index"`
	Description      string    `json:"description"      bson:"description"      gorm:"type:text"`
	ShortDescription string    `json:"shortDescription" bson:"shortDescription" gorm:"size:500"`
	Images           []string  `json:"images"           bson:"images"           gorm:"serializer:json"`
	Categories       []string  `json:"categories"       bson:"categories"       gorm:"serializer:json"`
	Sale             string    `json:"sale,omitempty"   bson:"sale,omitempty"   gorm:"size:100"`
	Variants         []Variant `json:"variants"         bson:"variants"         gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time `json:"createdAt"        bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"        bson:"updatedAt"`

	// Filled on read for responses; never stored.
	ImageURLs       []string   `json:"imageUrls,omitempty"       bson:"-" gorm:"-"`
	CategoryDetails []Category `json:"categoryDetails,omitempty" bson:"-" gorm:"-"`
}

// Variant is one purchasable (color, size) option of a product.
// Quantity never goes below zero.
type Variant struct {
	ID        string  `json:"id"        bson:"id"        gorm:"primaryKey;size:36"`
	ProductID string  `json:"-"         bson:"-"         gorm:"size:36;not null;uniqueIndex:idx_variant_option"`
	ColorID   string  `json:"colorId"   bson:"colorId"   gorm:"size:36;not null;uniqueIndex:idx_variant_option"`
	SizeID    string  `json:"sizeId"    bson:"sizeId"    gorm:"size:36;not null;uniqueIndex:idx_variant_option"`
	Price     float64 `json:"price"     bson:"price"     gorm:"not null"`
	CostPrice float64 `json:"costPrice" bson:"costPrice" gorm:"not null;default:0"`
	Quantity  int     `json:"quantity"  bson:"quantity"  gorm:"not null;default:0"`
	Position  int     `json:"-"         bson:"-"         gorm:"not null;default:0"`

	Color           *Color  `json:"color,omitempty"           bson:"-" gorm:"-"`
	Size            *Size   `json:"size,omitempty"            bson:"-" gorm:"-"`
	DiscountPercent float64 `json:"discountPercent,omitempty" bson:"-" gorm:"-"`
}

// FindVariant returns the variant with the given id.
func (p *Product) FindVariant(id string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// HasCategory reports whether the product is filed under categoryID.
func (p *Product) HasCategory(categoryID string) bool {
	for _, c := range p.Categories {
		if c == categoryID {
			return true
		}
	}
	return false
}

// TotalStock sums the quantity of every variant.
func (p *Product) TotalStock() int {
	n := 0
	for _, v := range p.Variants {
		n += v.Quantity
	}
	return n
}
