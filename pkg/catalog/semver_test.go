package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pkgVersion(p Package) string { return p.Version }

func TestMaxByVersion(t *testing.T) {
	t.Run("greatest version wins", func(t *testing.T) {
		pkgs := []Package{
			{Name: "small", Version: "1.0.0"},
			{Name: "small", Version: "1.1.0"},
			{Name: "small", Version: "1.0.9"},
		}
		best, ok := MaxByVersion(pkgs, pkgVersion)
		assert.True(t, ok)
		assert.Equal(t, "1.1.0", best.Version)
	})

	t.Run("unparseable versions are not candidates", func(t *testing.T) {
		pkgs := []Package{
			{Name: "a", Version: "not-semver"},
			{Name: "b", Version: "2.0.0"},
			{Name: "c", Version: "99"},
		}
		best, ok := MaxByVersion(pkgs, pkgVersion)
		assert.True(t, ok)
		// "99" parses as 99.0.0 under lenient semver parsing.
		assert.Equal(t, "c", best.Name)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := MaxByVersion(nil, pkgVersion)
		assert.False(t, ok)
	})

	t.Run("all invalid", func(t *testing.T) {
		pkgs := []Package{{Version: "x"}, {Version: ""}}
		_, ok := MaxByVersion(pkgs, pkgVersion)
		assert.False(t, ok)
	})

	t.Run("tie keeps first in scan order", func(t *testing.T) {
		pkgs := []Package{
			{ID: "first", Version: "1.0.0"},
			{ID: "second", Version: "1.0.0"},
		}
		best, ok := MaxByVersion(pkgs, pkgVersion)
		assert.True(t, ok)
		assert.Equal(t, "first", best.ID)
	})
}
