package models

import "time"

// Movement types of an inventory record.
const (
	MovementAdd    = "add"
	MovementRemove = "remove"
	MovementAdjust = "adjust"
)

// Sources of an inventory record.
const (
	SourceManual      = "manual"
	SourceInitial     = "initial"
	SourceCorrection  = "correction"
	SourceOrder       = "order"
	SourceOrderCancel = "order-cancel"
)

// InventoryRecord is one ledger entry. Summing Delta over a variant's
// records yields the variant's quantity.
type InventoryRecord struct {
	ID             string    `json:"id"                bson:"_id"               gorm:"primaryKey;size:36"`
	ProductID      string    `json:"productId"         bson:"productId"         gorm:"size:36;not null;index"`
	VariantID      string    `json:"variantId"         bson:"variantId"         gorm:"size:36;not null;index"`
	Type           string    `json:"type"              bson:"type"              gorm:"size:10;not null"`
	Quantity       int       `json:"quantity"          bson:"quantity"          gorm:"not null"`
	Delta          int       `json:"delta"             bson:"delta"             gorm:"not null"`
	QuantityBefore int       `json:"quantityBefore"    bson:"quantityBefore"    gorm:"not null"`
	QuantityAfter  int       `json:"quantityAfter"     bson:"quantityAfter"     gorm:"not null"`
	Reason         string    `json:"reason,omitempty"  bson:"reason,omitempty"  gorm:"size:255"`
	Source         string    `json:"source"            bson:"source"            gorm:"size:20;not null"`
	OrderID        string    `json:"orderId,omitempty" bson:"orderId,omitempty" gorm:"size:36;index"`
	CreatedBy      string    `json:"createdBy"         bson:"createdBy"         gorm:"size:36"`
	CreatedAt      time.Time `json:"createdAt"         bson:"createdAt"         gorm:"index"`
}
