package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// StockInput addresses a variant and a positive amount to move.
type StockInput struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId"`
	ColorID   string `json:"colorId"`
	SizeID    string `json:"sizeId"`
	Quantity  int    `json:"quantity"  validate:"required,gt=0,max=1000000"`
	Reason    string `json:"reason"    validate:"max=255"`
}

// MaxStockQuantity bounds a single stock movement and any quantity set
// directly. The quantity tags of StockInput, AdjustInput and VariantInput
// carry the same number.
const MaxStockQuantity = 1000000

// AdjustInput sets a variant's absolute quantity.
type AdjustInput struct {
	ProductID   string `json:"productId"   validate:"required"`
	VariantID   string `json:"variantId"`
	ColorID     string `json:"colorId"`
	SizeID      string `json:"sizeId"`
	NewQuantity *int   `json:"newQuantity" validate:"gte=0,lte=1000000"`
	Reason      string `json:"reason"      validate:"max=255"`
}

func (in AdjustInput) query() VariantQuery {
	return VariantQuery{VariantID: in.VariantID, ColorID: in.ColorID, SizeID: in.SizeID}
}

func (in StockInput) query() VariantQuery {
	return VariantQuery{VariantID: in.VariantID, ColorID: in.ColorID, SizeID: in.SizeID}
}

// InventoryService is the stock ledger. Every quantity change goes through
// a conditional store update and is followed by exactly one record.
type InventoryService struct {
	store  *repositories.Store
	events *event.Dispatcher
}

func check(v any) error {
	if errs := validate.Struct(v); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func (s *InventoryService) product(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return p, nil
}

// available reads the current quantity of a variant for error reports.
func (s *InventoryService) available(ctx context.Context, productID, variantID string) int {
	p, err := s.store.Products.Get(ctx, productID)
	if err != nil {
		return 0
	}
	if v, ok := p.FindVariant(variantID); ok {
		return v.Quantity
	}
	return 0
}

// record appends recs and announces each one.
func (s *InventoryService) record(ctx context.Context, recs ...*models.InventoryRecord) error {
	if err := s.store.Inventory.Append(ctx, recs...); err != nil {
		return fmt.Errorf("append inventory records: %w", err)
	}
	for _, rec := range recs {
		s.events.Fire(ctx, EventInventoryMoved, rec)
	}
	return nil
}

func newRecord(productID, variantID, typ, source string, qty, delta, after int) *models.InventoryRecord {
	return &models.InventoryRecord{
		ID:             newID(),
		ProductID:      productID,
		VariantID:      variantID,
		Type:           typ,
		Quantity:       qty,
		Delta:          delta,
		QuantityBefore: after - delta,
		QuantityAfter:  after,
		Source:         source,
		CreatedAt:      now(),
	}
}

// shift applies delta to a variant and writes its record. When the record
// cannot be written the stock change is undone.
func (s *InventoryService) shift(ctx context.Context, productID, variantID string, delta int, rec func(after int) *models.InventoryRecord) (*models.InventoryRecord, error) {
	after, err := s.store.Products.IncrementVariant(ctx, productID, variantID, delta)
	switch {
	case errors.Is(err, repositories.ErrConditionFailed):
		return nil, &InsufficientStockError{
			ProductID: productID,
			VariantID: variantID,
			Requested: -delta,
			Available: s.available(ctx, productID, variantID),
		}
	case err != nil:
		return nil, notFound(err, "variant", variantID)
	}

	r := rec(after)
	if err := s.record(ctx, r); err != nil {
		if _, uerr := s.store.Products.IncrementVariant(detached(ctx), productID, variantID, -delta); uerr != nil {
			logger.WithCtx(ctx).Error("failed to undo stock change", "variant_id", variantID, "delta", delta, "error", uerr)
		}
		return nil, err
	}
	return r, nil
}

func (s *InventoryService) move(ctx context.Context, in StockInput, typ string) (*models.InventoryRecord, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	p, err := s.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	v, err := ResolveVariant(p, in.query())
	if err != nil {
		return nil, err
	}

	delta := in.Quantity
	if typ == models.MovementRemove {
		delta = -in.Quantity
	}
	by := actor(ctx)
	return s.shift(ctx, p.ID, v.ID, delta, func(after int) *models.InventoryRecord {
		r := newRecord(p.ID, v.ID, typ, models.SourceManual, in.Quantity, delta, after)
		r.Reason, r.CreatedBy = in.Reason, by
		return r
	})
}

// AddStock records incoming stock.
func (s *InventoryService) AddStock(ctx context.Context, in StockInput) (*models.InventoryRecord, error) {
	return s.move(ctx, in, models.MovementAdd)
}

// RemoveStock records outgoing stock. It never drives a quantity below
// zero: a short variant yields InsufficientStockError and is left as is.
func (s *InventoryService) RemoveStock(ctx context.Context, in StockInput) (*models.InventoryRecord, error) {
	return s.move(ctx, in, models.MovementRemove)
}

// AdjustInventory sets the absolute quantity with compare-and-set against
// the value it read. A concurrent change is reported, not retried.
func (s *InventoryService) AdjustInventory(ctx context.Context, in AdjustInput) (*models.InventoryRecord, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	if in.NewQuantity == nil {
		return nil, invalid("newQuantity", "The newQuantity field is required.")
	}
	p, err := s.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	v, err := ResolveVariant(p, in.query())
	if err != nil {
		return nil, err
	}
	return s.adjust(ctx, p.ID, v.ID, v.Quantity, *in.NewQuantity, models.SourceManual, in.Reason)
}

func (s *InventoryService) adjust(ctx context.Context, productID, variantID string, from, to int, source, reason string) (*models.InventoryRecord, error) {
	err := s.store.Products.SetVariantQuantity(ctx, productID, variantID, from, to)
	switch {
	case errors.Is(err, repositories.ErrConditionFailed):
		return nil, conflict("stock of variant %s changed while adjusting; reload and retry", variantID)
	case err != nil:
		return nil, notFound(err, "variant", variantID)
	}

	r := newRecord(productID, variantID, models.MovementAdjust, source, to, to-from, to)
	r.Reason, r.CreatedBy = reason, actor(ctx)
	if err := s.record(ctx, r); err != nil {
		if uerr := s.store.Products.SetVariantQuantity(detached(ctx), productID, variantID, to, from); uerr != nil {
			logger.WithCtx(ctx).Error("failed to undo adjustment", "variant_id", variantID, "error", uerr)
		}
		return nil, err
	}
	return r, nil
}

// RecordsByProduct lists a product's ledger, newest first.
func (s *InventoryService) RecordsByProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error) {
	if _, err := s.product(ctx, productID); err != nil {
		return nil, err
	}
	return s.store.Inventory.ForProduct(ctx, productID)
}

// AllRecords pages through the whole ledger, newest first.
func (s *InventoryService) AllRecords(ctx context.Context, page repositories.Page) ([]models.InventoryRecord, int64, error) {
	return s.store.Inventory.List(ctx, page)
}

// UpdateRecord edits the reason of a record. Quantities are immutable.
func (s *InventoryService) UpdateRecord(ctx context.Context, id, reason string) (*models.InventoryRecord, error) {
	if len([]rune(reason)) > 255 {
		return nil, invalid("reason", "The reason must not exceed 255 characters.")
	}
	if err := s.store.Inventory.UpdateReason(ctx, id, reason); err != nil {
		return nil, notFound(err, "inventory record", id)
	}
	rec, err := s.store.Inventory.Get(ctx, id)
	return rec, notFound(err, "inventory record", id)
}

// DeleteRecord removes the newest record of a variant and reverses its
// effect on the stock, so replaying the remaining records still yields the
// stored quantity. Older records cannot be deleted.
func (s *InventoryService) DeleteRecord(ctx context.Context, id string) error {
	rec, err := s.store.Inventory.Get(ctx, id)
	if err != nil {
		return notFound(err, "inventory record", id)
	}
	latest, err := s.store.Inventory.Latest(ctx, rec.VariantID)
	if err != nil {
		return err
	}
	if latest.ID != rec.ID {
		return conflict("only the latest record of a variant can be deleted")
	}

	if rec.Delta != 0 {
		_, err := s.store.Products.IncrementVariant(ctx, rec.ProductID, rec.VariantID, -rec.Delta)
		switch {
		case errors.Is(err, repositories.ErrConditionFailed):
			return &InsufficientStockError{
				ProductID: rec.ProductID,
				VariantID: rec.VariantID,
				Requested: rec.Delta,
				Available: s.available(ctx, rec.ProductID, rec.VariantID),
			}
		case err != nil:
			return notFound(err, "variant", rec.VariantID)
		}
	}

	if err := s.store.Inventory.Delete(ctx, rec.ID); err != nil {
		if rec.Delta != 0 {
			if _, uerr := s.store.Products.IncrementVariant(detached(ctx), rec.ProductID, rec.VariantID, rec.Delta); uerr != nil {
				logger.WithCtx(ctx).Error("failed to restore stock after failed record delete", "record_id", rec.ID, "error", uerr)
			}
		}
		return err
	}
	logger.WithCtx(ctx).Info("inventory record deleted", "record_id", rec.ID, "variant_id", rec.VariantID, "delta", rec.Delta)
	return nil
}

// VariantBalance compares a variant's stored quantity with its ledger.
type VariantBalance struct {
	VariantID string `json:"variantId"`
	ColorID   string `json:"colorId"`
	SizeID    string `json:"sizeId"`
	Stored    int    `json:"stored"`
	Replayed  int    `json:"replayed"`
	Records   int    `json:"records"`
	Match     bool   `json:"match"`
}

// Reconciliation is the per-variant ledger check of one product.
type Reconciliation struct {
	ProductID string           `json:"productId"`
	Variants  []VariantBalance `json:"variants"`
	Match     bool             `json:"match"`
}

// Reconcile replays each variant's records and reports whether the sum of
// deltas equals the stored quantity.
func (s *InventoryService) Reconcile(ctx context.Context, productID string) (*Reconciliation, error) {
	p, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.Inventory.ForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	byVariant := collection.GroupBy(recs, func(r models.InventoryRecord) string { return r.VariantID })

	out := &Reconciliation{ProductID: p.ID, Variants: []VariantBalance{}, Match: true}
	for _, v := range p.Variants {
		history := byVariant[v.ID]
		replayed := collection.Reduce(history, 0, func(sum int, r models.InventoryRecord) int { return sum + r.Delta })

		b := VariantBalance{
			VariantID: v.ID,
			ColorID:   v.ColorID,
			SizeID:    v.SizeID,
			Stored:    v.Quantity,
			Replayed:  replayed,
			Records:   len(history),
			Match:     replayed == v.Quantity,
		}
		out.Match = out.Match && b.Match
		out.Variants = append(out.Variants, b)
	}
	return out, nil
}
