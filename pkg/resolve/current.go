package resolve

import (
	"github.com/stratovia/cloudgate/pkg/catalog"
	"github.com/stratovia/cloudgate/pkg/version"
)

// SelectCurrentImage picks "the" image for a machine-create request from the
// pre-loaded candidates, given the identifier the client supplied.
//
// The two protocol tracks intentionally diverge and must stay that way:
// the legacy 6.5 track matches loosely on id, urn, or name and then takes
// the greatest semantic version among matches; modern tracks take the first
// strict id or urn match in scan order and stop. Old clients depend on the
// legacy widening, new clients on the exact-match semantics.
func SelectCurrentImage(vc *version.Context, candidates []catalog.Image, ident string) *catalog.Image {
	if vc.Legacy65 {
		return selectImageLegacy(candidates, ident)
	}
	return selectImageModern(candidates, ident)
}

func selectImageLegacy(candidates []catalog.Image, ident string) *catalog.Image {
	var matches []catalog.Image
	for _, img := range candidates {
		if img.ID == ident || img.URN == ident || img.Name == ident {
			matches = append(matches, img)
		}
	}
	if best, ok := catalog.MaxByVersion(matches, func(i catalog.Image) string { return i.Version }); ok {
		return &best
	}
	return nil
}

func selectImageModern(candidates []catalog.Image, ident string) *catalog.Image {
	for i := range candidates {
		if candidates[i].ID == ident || candidates[i].URN == ident {
			return &candidates[i]
		}
	}
	return nil
}
