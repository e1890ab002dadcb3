package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// Constraint types.
const (
	ConstraintAccess = "access"
	ConstraintUsage  = "usage"
)

// AccessConstraint converts an access restriction into a constraint.
// The permissions travel inside href as "#" followed by the percent-encoded JSON list,
// so both constraint types keep the same shape. An empty list encodes as "#%5B%5D".
func AccessConstraint(r catalogue.AccessRestriction) Constraint {
	perms := r.Permissions
	if perms == nil {
		perms = []catalogue.Permission{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(perms) // string fields only, cannot fail

	return Constraint{
		Type:            ConstraintAccess,
		RestrictionCode: r.Restriction,
		Statement:       r.Label,
		Href:            "#" + encodeURIComponent(strings.TrimSuffix(buf.String(), "\n")),
	}
}

// DecodeAccessPermissions reverses the href encoding of AccessConstraint.
func DecodeAccessPermissions(href string) ([]catalogue.Permission, error) {
	raw, err := url.PathUnescape(strings.TrimPrefix(href, "#"))
	if err != nil {
		return nil, fmt.Errorf("unescape permissions: %w", err)
	}
	var perms []catalogue.Permission
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		return nil, fmt.Errorf("unmarshal permissions: %w", err)
	}
	return perms, nil
}

// UsageConstraint converts a licence into a constraint linking to the licence text.
func UsageConstraint(l catalogue.Licence) Constraint {
	return Constraint{
		Type:            ConstraintUsage,
		RestrictionCode: "license",
		Statement:       l.Statement,
		Href:            l.URL,
	}
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 and -_.!~*'(),
// matching the ECMAScript function of the same name.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
