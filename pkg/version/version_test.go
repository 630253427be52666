package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supported(t *testing.T) []*semver.Version {
	t.Helper()
	var out []*semver.Version
	for _, raw := range []string{"6.5.0", "7.0.0", "7.1.0", "8.0.0"} {
		v, err := semver.NewVersion(raw)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestNegotiate(t *testing.T) {
	versions := supported(t)

	t.Run("empty header selects current version", func(t *testing.T) {
		v, err := Negotiate("", versions)
		require.NoError(t, err)
		assert.Equal(t, "8.0.0", v.String())
	})

	t.Run("exact version", func(t *testing.T) {
		v, err := Negotiate("7.0.0", versions)
		require.NoError(t, err)
		assert.Equal(t, "7.0.0", v.String())
	})

	t.Run("range picks greatest satisfying version", func(t *testing.T) {
		v, err := Negotiate(">=7.0 <8.0", versions)
		require.NoError(t, err)
		assert.Equal(t, "7.1.0", v.String())
	})

	t.Run("tilde range resolves to legacy track", func(t *testing.T) {
		v, err := Negotiate("~6.5", versions)
		require.NoError(t, err)
		assert.Equal(t, "6.5.0", v.String())
	})

	t.Run("unsatisfiable range is rejected", func(t *testing.T) {
		_, err := Negotiate(">=9.0", versions)
		assert.Error(t, err)
	})

	t.Run("garbage header is rejected", func(t *testing.T) {
		_, err := Negotiate("not-a-version", versions)
		assert.Error(t, err)
	})
}

func TestContextTracks(t *testing.T) {
	versions := supported(t)

	legacy, err := Negotiate("~6.5", versions)
	require.NoError(t, err)
	modern, err := Negotiate("7.0.0", versions)
	require.NoError(t, err)

	vc := NewContext(legacy, Features{}, "alice", false)
	assert.True(t, vc.Legacy65)
	assert.False(t, vc.AtLeast70)
	assert.False(t, vc.BleedingEdge)

	vc = NewContext(modern, Features{}, "alice", false)
	assert.False(t, vc.Legacy65)
	assert.True(t, vc.AtLeast70)
}

func TestPackageFieldTable(t *testing.T) {
	versions := supported(t)

	legacy, err := Negotiate("~6.5", versions)
	require.NoError(t, err)
	vc := NewContext(legacy, Features{}, "alice", false)

	for _, field := range []string{FieldName, FieldMemory, FieldDisk, FieldSwap, FieldVCPUs, FieldLWPs, FieldDefault} {
		assert.True(t, vc.IncludesPackageField(field), "legacy track must include %s", field)
	}
	for _, field := range []string{FieldID, FieldVersion, FieldDescription, FieldGroup} {
		assert.False(t, vc.IncludesPackageField(field), "legacy track must omit %s", field)
	}

	modern, err := Negotiate("7.0.0", versions)
	require.NoError(t, err)
	vc = NewContext(modern, Features{}, "alice", false)
	for _, field := range []string{FieldID, FieldVersion, FieldDescription, FieldGroup} {
		assert.True(t, vc.IncludesPackageField(field), "modern track must include %s", field)
	}
}

func TestImageFieldGating(t *testing.T) {
	versions := supported(t)
	edge, err := Negotiate("7.1.0", versions)
	require.NoError(t, err)
	older, err := Negotiate("7.0.0", versions)
	require.NoError(t, err)

	flags := Features{BleedingEdge: true, BleedingEdgeWhitelist: []string{"alice"}}

	t.Run("urn only on deprecated route", func(t *testing.T) {
		vc := NewContext(older, Features{}, "alice", true)
		assert.True(t, vc.IncludesImageField(FieldURN))
		vc = NewContext(older, Features{}, "alice", false)
		assert.False(t, vc.IncludesImageField(FieldURN))
	})

	t.Run("bleeding edge needs flag, version, and whitelist", func(t *testing.T) {
		vc := NewContext(edge, flags, "alice", false)
		assert.True(t, vc.BleedingEdge)
		assert.True(t, vc.IncludesImageField(FieldOwner))
		assert.True(t, vc.IncludesImageField(FieldError))

		vc = NewContext(edge, flags, "mallory", false)
		assert.False(t, vc.BleedingEdge)
		assert.False(t, vc.IncludesImageField(FieldOwner))

		vc = NewContext(older, flags, "alice", false)
		assert.False(t, vc.BleedingEdge, "7.0 is below the bleeding-edge boundary")

		vc = NewContext(edge, Features{BleedingEdgeWhitelist: []string{"alice"}}, "alice", false)
		assert.False(t, vc.BleedingEdge, "master flag off")
	})

	t.Run("wildcard whitelist", func(t *testing.T) {
		vc := NewContext(edge, Features{BleedingEdge: true, BleedingEdgeWhitelist: []string{"*"}}, "anyone", false)
		assert.True(t, vc.BleedingEdge)
	})
}
