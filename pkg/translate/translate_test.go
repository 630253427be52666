package translate

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratovia/cloudgate/pkg/catalog"
	"github.com/stratovia/cloudgate/pkg/version"
)

func contextFor(t *testing.T, ver string, features version.Features, login string, deprecated bool) *version.Context {
	t.Helper()
	v, err := semver.NewVersion(ver)
	require.NoError(t, err)
	return version.NewContext(v, features, login, deprecated)
}

var rawPackage = catalog.Package{
	ID:          "11111111-2222-3333-4444-555555555555",
	Name:        "small",
	Version:     "1.1.0",
	Memory:      1024,
	Disk:        10240,
	Swap:        2048,
	VCPUs:       2,
	LWPs:        2000,
	Default:     true,
	Active:      true,
	Description: "A small package",
	Group:       "standard",
}

func TestPackageShapingLegacy(t *testing.T) {
	tr := New(contextFor(t, "6.5.0", version.Features{}, "alice", false))
	shaped := tr.Package(rawPackage)

	// Always-present fields survive on every track.
	assert.Equal(t, "small", shaped.Name)
	assert.Equal(t, int64(1024), shaped.Memory)
	assert.Equal(t, int64(10240), shaped.Disk)
	assert.Equal(t, int64(2048), shaped.Swap)
	assert.Equal(t, 2, shaped.VCPUs)
	assert.True(t, shaped.Default)

	// Legacy clients never see the stable identifier or semver.
	assert.Nil(t, shaped.ID)
	assert.Nil(t, shaped.Version)
	assert.Nil(t, shaped.Description)
	assert.Nil(t, shaped.Group)
}

func TestPackageShapingModern(t *testing.T) {
	tr := New(contextFor(t, "7.0.0", version.Features{}, "alice", false))
	shaped := tr.Package(rawPackage)

	require.NotNil(t, shaped.ID)
	assert.Equal(t, rawPackage.ID, *shaped.ID)
	require.NotNil(t, shaped.Version)
	assert.Equal(t, "1.1.0", *shaped.Version)
	require.NotNil(t, shaped.Description)
	assert.Equal(t, "A small package", *shaped.Description)
	require.NotNil(t, shaped.Group)
	assert.Equal(t, "standard", *shaped.Group)
}

var rawImage = catalog.Image{
	ID:          "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
	URN:         "cloud:img:base-1.1.0",
	Name:        "base",
	Version:     "1.1.0",
	OS:          "linux",
	Type:        "zone-dataset",
	Default:     true,
	Active:      true,
	Public:      true,
	State:       "active",
	Owner:       "operator",
	Homepage:    "https://example.com/base",
	PublishedAt: "2020-01-01T00:00:00Z",
	EULA:        "https://example.com/eula",
	ACL:         []string{"tenant-1"},
	Origin:      "ffffffff-0000-1111-2222-333333333333",
}

func TestImageShapingPerTrack(t *testing.T) {
	t.Run("legacy datasets route exposes urn", func(t *testing.T) {
		tr := New(contextFor(t, "6.5.0", version.Features{}, "alice", true))
		shaped := tr.Image(rawImage)
		require.NotNil(t, shaped.URN)
		assert.Equal(t, rawImage.URN, *shaped.URN)
		assert.Nil(t, shaped.Homepage)
		assert.Nil(t, shaped.Owner)
	})

	t.Run("7.0 exposes homepage and publish date", func(t *testing.T) {
		tr := New(contextFor(t, "7.0.0", version.Features{}, "alice", false))
		shaped := tr.Image(rawImage)
		require.NotNil(t, shaped.Homepage)
		assert.Equal(t, rawImage.Homepage, *shaped.Homepage)
		require.NotNil(t, shaped.PublishedAt)
		assert.Nil(t, shaped.URN, "urn only appears on the deprecated route")
		assert.Nil(t, shaped.Owner, "extended set needs bleeding edge")
	})

	t.Run("bleeding edge exposes the extended set", func(t *testing.T) {
		flags := version.Features{BleedingEdge: true, BleedingEdgeWhitelist: []string{"alice"}}
		tr := New(contextFor(t, "7.1.0", flags, "alice", false))
		shaped := tr.Image(rawImage)
		require.NotNil(t, shaped.Owner)
		assert.Equal(t, "operator", *shaped.Owner)
		require.NotNil(t, shaped.Public)
		assert.True(t, *shaped.Public)
		require.NotNil(t, shaped.State)
		assert.Equal(t, "active", *shaped.State)
		assert.Equal(t, []string{"tenant-1"}, shaped.ACL)
		require.NotNil(t, shaped.Origin)
	})

	t.Run("always-present fields populated whenever source is non-empty", func(t *testing.T) {
		tr := New(contextFor(t, "6.5.0", version.Features{}, "alice", true))
		shaped := tr.Image(rawImage)
		assert.Equal(t, rawImage.ID, shaped.ID)
		assert.Equal(t, rawImage.Name, shaped.Name)
		assert.Equal(t, rawImage.Version, shaped.Version)
		assert.Equal(t, rawImage.OS, shaped.OS)
	})
}

func TestImageErrorTranslation(t *testing.T) {
	flags := version.Features{BleedingEdge: true, BleedingEdgeWhitelist: []string{"*"}}
	tr := New(contextFor(t, "7.1.0", flags, "alice", false))

	t.Run("known codes map to stable shapes", func(t *testing.T) {
		img := rawImage
		img.ErrorCode = "EPREPAREIMAGEDIDNOTRUN"
		img.ErrorMessage = "exit 127 /var/tmp/prepare.sh"
		shaped := tr.Image(img)
		require.NotNil(t, shaped.Error)
		assert.Equal(t, "PrepareImageDidNotRun", shaped.Error.Code)
		assert.NotContains(t, shaped.Error.Message, "prepare.sh", "raw backend detail must not leak")
	})

	t.Run("unknown codes collapse to InternalError", func(t *testing.T) {
		img := rawImage
		img.ErrorCode = "ESOMETHINGWEIRD"
		shaped := tr.Image(img)
		require.NotNil(t, shaped.Error)
		assert.Equal(t, "InternalError", shaped.Error.Code)
	})

	t.Run("error hidden below bleeding edge", func(t *testing.T) {
		img := rawImage
		img.ErrorCode = "ENOTSUP"
		plain := New(contextFor(t, "7.0.0", version.Features{}, "alice", false))
		shaped := plain.Image(img)
		assert.Nil(t, shaped.Error)
	})
}
