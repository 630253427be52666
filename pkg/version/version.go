package version

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Protocol track boundaries. The legacy 6.5 track predates stable package
// identifiers and the urn-less image schema; 7.0 introduced them; 7.1 is the
// first track that can carry bleeding-edge image fields.
var (
	legacyRange       = mustConstraint("~6.5")
	modernRange       = mustConstraint(">=7.0.0")
	bleedingEdgeRange = mustConstraint(">=7.1.0")
)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(fmt.Sprintf("bad built-in version range %q: %v", s, err))
	}
	return c
}

// Features holds the server-side feature toggles that influence response
// shaping. Values are validated at startup; see config.Validate.
type Features struct {
	// BleedingEdge enables the extended image field set for whitelisted
	// accounts on 7.1+ protocol tracks.
	BleedingEdge bool
	// BleedingEdgeWhitelist lists account logins granted bleeding-edge
	// access. A single "*" entry grants it to every account.
	BleedingEdgeWhitelist []string
}

// Whitelisted reports whether login is covered by the whitelist.
func (f Features) Whitelisted(login string) bool {
	for _, entry := range f.BleedingEdgeWhitelist {
		if entry == "*" || entry == login {
			return true
		}
	}
	return false
}

// Context is the per-request version context. It is derived once, when the
// request enters the gateway, and treated as read-only afterwards.
type Context struct {
	// Requested is the negotiated protocol version serving this request.
	Requested *semver.Version

	// DeprecatedRoute is set when the request arrived on a deprecated
	// route alias (the datasets endpoints), which exposes the legacy urn
	// identifier.
	DeprecatedRoute bool

	Legacy65     bool
	AtLeast70    bool
	BleedingEdge bool

	packageFields fieldSet
	imageFields   fieldSet
}

type fieldSet map[string]struct{}

func (s fieldSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

// Package field names used by the inclusion table.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldVersion     = "version"
	FieldMemory      = "memory"
	FieldDisk        = "disk"
	FieldSwap        = "swap"
	FieldVCPUs       = "vcpus"
	FieldLWPs        = "lwps"
	FieldDefault     = "default"
	FieldDescription = "description"
	FieldGroup       = "group"

	FieldOS           = "os"
	FieldType         = "type"
	FieldRequirements = "requirements"
	FieldURN          = "urn"
	FieldHomepage     = "homepage"
	FieldPublishedAt  = "published_at"
	FieldOwner        = "owner"
	FieldPublic       = "public"
	FieldState        = "state"
	FieldEULA         = "eula"
	FieldACL          = "acl"
	FieldOrigin       = "origin"
	FieldError        = "error"
)

// fieldRule maps a track predicate to the fields that track adds. The tables
// are the single source of truth for response shape; translators only ask
// IncludesPackageField/IncludesImageField.
type fieldRule struct {
	applies func(*Context) bool
	fields  []string
}

var packageFieldTable = []fieldRule{
	{
		applies: func(*Context) bool { return true },
		fields:  []string{FieldName, FieldMemory, FieldDisk, FieldSwap, FieldVCPUs, FieldLWPs, FieldDefault},
	},
	{
		applies: func(c *Context) bool { return c.AtLeast70 },
		fields:  []string{FieldID, FieldVersion, FieldDescription, FieldGroup},
	},
}

var imageFieldTable = []fieldRule{
	{
		applies: func(*Context) bool { return true },
		fields:  []string{FieldID, FieldName, FieldVersion, FieldOS, FieldType, FieldRequirements, FieldDefault},
	},
	{
		applies: func(c *Context) bool { return c.DeprecatedRoute },
		fields:  []string{FieldURN},
	},
	{
		applies: func(c *Context) bool { return c.AtLeast70 },
		fields:  []string{FieldHomepage, FieldPublishedAt},
	},
	{
		applies: func(c *Context) bool { return c.BleedingEdge },
		fields:  []string{FieldOwner, FieldPublic, FieldState, FieldEULA, FieldACL, FieldOrigin, FieldError},
	},
}

// NewContext evaluates the field tables once for the given negotiated
// version, feature flags, and account login.
func NewContext(requested *semver.Version, features Features, login string, deprecatedRoute bool) *Context {
	c := &Context{
		Requested:       requested,
		DeprecatedRoute: deprecatedRoute,
		Legacy65:        legacyRange.Check(requested),
		AtLeast70:       modernRange.Check(requested),
	}
	c.BleedingEdge = features.BleedingEdge &&
		bleedingEdgeRange.Check(requested) &&
		features.Whitelisted(login)

	c.packageFields = evalTable(packageFieldTable, c)
	c.imageFields = evalTable(imageFieldTable, c)
	return c
}

func evalTable(table []fieldRule, c *Context) fieldSet {
	set := make(fieldSet)
	for _, rule := range table {
		if rule.applies(c) {
			for _, f := range rule.fields {
				set[f] = struct{}{}
			}
		}
	}
	return set
}

// IncludesPackageField reports whether the named package field is visible on
// this protocol track.
func (c *Context) IncludesPackageField(name string) bool {
	return c.packageFields.has(name)
}

// IncludesImageField reports whether the named image field is visible on
// this protocol track.
func (c *Context) IncludesImageField(name string) bool {
	return c.imageFields.has(name)
}

// Negotiate picks the protocol version serving a request. The header value
// may be an exact version ("7.0.0") or a semver range ("~6.5", ">=7.1"); an
// empty header selects the server's current (greatest supported) version.
// The greatest supported version satisfying the constraint wins.
func Negotiate(header string, supported []*semver.Version) (*semver.Version, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("no supported API versions configured")
	}

	ordered := make([]*semver.Version, len(supported))
	copy(ordered, supported)
	sort.Sort(sort.Reverse(semver.Collection(ordered)))

	header = strings.TrimSpace(header)
	if header == "" {
		return ordered[0], nil
	}

	constraint, err := semver.NewConstraint(header)
	if err != nil {
		return nil, fmt.Errorf("invalid API version %q: %w", header, err)
	}
	for _, v := range ordered {
		if constraint.Check(v) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("API version %q is not supported", header)
}
