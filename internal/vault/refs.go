// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"regexp"
	"strings"

	"github.com/lockboxhq/lockbox/internal/model"
)

// Entry fields may embed {REF:<id>} placeholders pointing at another
// entry's secret, resolved at read time. IDs are caller-suppliable, so
// the pattern accepts anything up to the closing brace.
var refPattern = regexp.MustCompile(`\{REF:([^}]+)\}`)

// Resolution follows reference chains; the depth cap breaks cycles.
const maxRefDepth = 8

// Placeholder returns the textual reference to an entry's secret.
func Placeholder(id string) string {
	return "{REF:" + id + "}"
}

func refFields(e *model.Entry) []string {
	return []string{e.Username, e.Secret, e.URL, e.Notes}
}

// ReferencesTo returns every entry outside the recycle bin whose fields
// textually reference e. The reference lookup is flat over the whole
// store; recycled entries never count as referencing.
func (v *Vault) ReferencesTo(e *model.Entry) ([]*model.Entry, error) {
	all, err := v.Entries(false)
	if err != nil {
		return nil, err
	}
	needle := Placeholder(e.ID)
	var refs []*model.Entry
	for _, other := range all {
		if other.ID == e.ID {
			continue
		}
		for _, f := range refFields(other) {
			if strings.Contains(f, needle) {
				refs = append(refs, other)
				break
			}
		}
	}
	return refs, nil
}

// Resolve expands every placeholder in s to the referenced entry's secret,
// following chains up to the depth cap. Unresolvable references are left
// verbatim.
func (v *Vault) Resolve(s string) (string, error) {
	return v.resolve(s, 0)
}

func (v *Vault) resolve(s string, depth int) (string, error) {
	if depth >= maxRefDepth || !refPattern.MatchString(s) {
		return s, nil
	}
	var firstErr error
	out := refPattern.ReplaceAllStringFunc(s, func(match string) string {
		id := refPattern.FindStringSubmatch(match)[1]
		target, err := v.Entry(id)
		if err != nil {
			return match
		}
		resolved, err := v.resolve(target.Secret, depth+1)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return resolved
	})
	return out, firstErr
}

// ReplaceReferences rewrites every field of ref, substituting placeholders
// pointing at target with target's resolved secret, and persists the
// result. Used before target is permanently deleted so no dangling
// references remain.
func (v *Vault) ReplaceReferences(ref, target *model.Entry) error {
	value, err := v.Resolve(target.Secret)
	if err != nil {
		return err
	}
	needle := Placeholder(target.ID)
	ref.Username = strings.ReplaceAll(ref.Username, needle, value)
	ref.Secret = strings.ReplaceAll(ref.Secret, needle, value)
	ref.URL = strings.ReplaceAll(ref.URL, needle, value)
	ref.Notes = strings.ReplaceAll(ref.Notes, needle, value)
	return v.UpdateEntry(ref)
}
