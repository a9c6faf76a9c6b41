package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type InventoryController struct {
	inventory *services.InventoryService
}

func NewInventoryController(s *services.Services) *InventoryController {
	return &InventoryController{inventory: s.Inventory}
}

func (ic *InventoryController) Add(c *ctx.Context) {
	var in services.StockInput
	if !c.BindJSON(&in) {
		return
	}
	rec, err := ic.inventory.AddStock(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(rec)
}

func (ic *InventoryController) Remove(c *ctx.Context) {
	var in services.StockInput
	if !c.BindJSON(&in) {
		return
	}
	rec, err := ic.inventory.RemoveStock(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(rec)
}

func (ic *InventoryController) Adjust(c *ctx.Context) {
	var in services.AdjustInput
	if !c.BindJSON(&in) {
		return
	}
	rec, err := ic.inventory.AdjustInventory(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(rec)
}

func (ic *InventoryController) ByProduct(c *ctx.Context) {
	recs, err := ic.inventory.RecordsByProduct(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (ic *InventoryController) Reconcile(c *ctx.Context) {
	r, err := ic.inventory.Reconcile(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(r)
}

func (ic *InventoryController) Index(c *ctx.Context) {
	p, limit := page(c)
	recs, total, err := ic.inventory.AllRecords(c.Context(), services.PageOf(p, limit))
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, recs, total, p, limit)
}

// Update changes only the reason of a record.
func (ic *InventoryController) Update(c *ctx.Context) {
	var in struct {
		Reason string `json:"reason" validate:"max=255"`
	}
	if !c.BindJSON(&in) {
		return
	}
	rec, err := ic.inventory.UpdateRecord(c.Context(), c.Param("id"), in.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(rec)
}

func (ic *InventoryController) Destroy(c *ctx.Context) {
	if err := ic.inventory.DeleteRecord(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("Inventory record deleted", nil)
}
