package services

import "github.com/shashiranjanraj/storefront/app/models"

// VariantQuery addresses a variant either directly or by its options.
type VariantQuery struct {
	VariantID string
	ColorID   string
	SizeID    string
}

// ResolveVariant picks the variant of p that q describes:
//
//  1. by VariantID when given
//  2. by the (ColorID, SizeID) pair when both are given
//  3. the only variant when p has exactly one
//
// Anything else is an InvalidVariantError.
func ResolveVariant(p *models.Product, q VariantQuery) (*models.Variant, error) {
	switch {
	case q.VariantID != "":
		if v, ok := p.FindVariant(q.VariantID); ok {
			return v, nil
		}
		return nil, &InvalidVariantError{ProductID: p.ID, Reason: "variant " + q.VariantID + " does not belong to this product"}

	case q.ColorID != "" && q.SizeID != "":
		for i := range p.Variants {
			if p.Variants[i].ColorID == q.ColorID && p.Variants[i].SizeID == q.SizeID {
				return &p.Variants[i], nil
			}
		}
		return nil, &InvalidVariantError{ProductID: p.ID, Reason: "no variant with the selected color and size"}

	case len(p.Variants) == 1:
		return &p.Variants[0], nil
	}

	if len(p.Variants) == 0 {
		return nil, &InvalidVariantError{ProductID: p.ID, Reason: "product has no variants"}
	}
	return nil, &InvalidVariantError{ProductID: p.ID, Reason: "select a color and size"}
}

// Options are the distinct colors and sizes a product comes in.
type Options struct {
	Colors []string `json:"colors"`
	Sizes  []string `json:"sizes"`
}

// AvailableOptions lists color and size ids in first-seen order.
func AvailableOptions(p *models.Product) Options {
	out := Options{Colors: []string{}, Sizes: []string{}}
	seenC, seenS := map[string]bool{}, map[string]bool{}
	for _, v := range p.Variants {
		if !seenC[v.ColorID] {
			seenC[v.ColorID] = true
			out.Colors = append(out.Colors, v.ColorID)
		}
		if !seenS[v.SizeID] {
			seenS[v.SizeID] = true
			out.Sizes = append(out.Sizes, v.SizeID)
		}
	}
	return out
}
