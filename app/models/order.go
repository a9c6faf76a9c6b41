package models

import "time"

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Order channels.
const (
	ChannelStorefront = "storefront"
	ChannelPOS        = "pos"
)

// Order is immutable apart from Status. TotalAmount is the sum of the line
// totals at creation time.
type Order struct {
	ID          string      `json:"id"          bson:"_id"         gorm:"primaryKey;size:36"`
	UserID      string      `json:"userId"      bson:"userId"      gorm:"size:36;not null;index"`
	PlacedBy    string      `json:"placedBy"    bson:"placedBy"    gorm:"size:36;not null"`
	Channel     string      `json:"channel"     bson:"channel"     gorm:"size:20;not null"`
	Items       []OrderItem `json:"items"       bson:"items"       gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount float64     `json:"totalAmount" bson:"totalAmount" gorm:"not null"`
	Status      string      `json:"status"      bson:"status"      gorm:"size:20;not null;index"`
	CreatedAt   time.Time   `json:"createdAt"   bson:"createdAt"   gorm:"index"`
	UpdatedAt   time.Time   `json:"updatedAt"   bson:"updatedAt"`
}

type OrderItem struct {
	ID        string  `json:"id"        bson:"id"        gorm:"primaryKey;size:36"`
	OrderID   string  `json:"-"         bson:"-"         gorm:"size:36;not null;index"`
	ProductID string  `json:"productId" bson:"productId" gorm:"size:36;not null"`
	VariantID string  `json:"variantId" bson:"variantId" gorm:"size:36;not null"`
	ColorID   string  `json:"colorId"   bson:"colorId"   gorm:"size:36"`
	SizeID    string  `json:"sizeId"    bson:"sizeId"    gorm:"size:36"`
	Name      string  `json:"name"      bson:"name"      gorm:"size:255"`
	Quantity  int     `json:"quantity"  bson:"quantity"  gorm:"not null"`
	UnitPrice float64 `json:"unitPrice" bson:"unitPrice" gorm:"not null"`
	LineTotal float64 `json:"lineTotal" bson:"lineTotal" gorm:"not null"`
	Position  int     `json:"-"         bson:"-"         gorm:"not null;default:0"`
}
