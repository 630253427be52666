package catalog

import (
	"github.com/Masterminds/semver/v3"
)

// MaxByVersion returns the element whose version string parses as the
// greatest semantic version. Elements with unparseable versions are not
// candidates. When several candidates share the maximal version the first in
// scan order wins; the backends are expected to keep name+version unique, so
// ties should not occur in practice.
//
// Every greatest-version selection in the gateway (by-name resolution,
// default-package selection, legacy current-image selection) goes through
// this one comparator so the paths cannot diverge.
func MaxByVersion[E any](items []E, versionOf func(E) string) (E, bool) {
	var (
		best    E
		bestVer *semver.Version
		found   bool
	)
	for _, item := range items {
		v, err := semver.NewVersion(versionOf(item))
		if err != nil {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best = item
			bestVer = v
			found = true
		}
	}
	return best, found
}
