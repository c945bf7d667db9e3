// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package authz

import (
	"fmt"

	"github.com/lockboxhq/lockbox/internal/i18n"
	"github.com/lockboxhq/lockbox/internal/model"
	"github.com/lockboxhq/lockbox/internal/prompt"
)

// RequestRemove asks the operator whether client may remove the requested
// entries from the named vault and applies the outcome to the store. It
// returns the number of entries actually removed. Exhausted input cancels
// the whole remaining batch before any entry is touched.
func (w *Workflow) RequestRemove(store Store, client model.Client, vaultName string, entries []*model.Entry, permanent bool) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	// Non-permanent removals go to the recycle bin and need no
	// confirmation; permanent ones are gated by the settings switch.
	if permanent && w.settings.ConfirmRemove() {
		ok, err := w.confirmRemove(client, vaultName, entries)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
	}

	cohort := make(map[string]bool, len(entries))
	for _, e := range entries {
		cohort[e.ID] = true
	}

	type rewrite struct {
		ref, target *model.Entry
	}
	var rewrites []rewrite
	var selected []*model.Entry

	for _, e := range entries {
		if permanent {
			refs, err := store.ReferencesTo(e)
			if err != nil {
				return 0, err
			}
			// References inside the deletion cohort vanish with it and
			// need no resolution.
			outside := refs[:0]
			for _, r := range refs {
				if !cohort[r.ID] {
					outside = append(outside, r)
				}
			}
			if len(outside) > 0 {
				title, rerr := store.Resolve(e.Title)
				if rerr != nil {
					title = e.Title
				}
				fmt.Fprintln(w.out, i18n.T("authz.remove.refs", title, len(outside)))
				choice, err := w.ask.Ask(i18n.T("authz.remove.refs_choose"),
					[]string{
						i18n.T("authz.remove.overwrite"),
						i18n.T("authz.remove.skip"),
						i18n.T("authz.remove.delete"),
					},
					[][]string{
						prompt.Aliases("authz.alias.overwrite"),
						prompt.Aliases("authz.alias.skip"),
						prompt.Aliases("authz.alias.delete"),
					})
				if err != nil {
					return 0, err
				}
				switch choice {
				case 0:
					for _, ref := range outside {
						rewrites = append(rewrites, rewrite{ref: ref, target: e})
					}
				case 1:
					// Skip drops the entry from the deletion set entirely.
					continue
				case 2:
					// Delete anyway: dangling references are accepted.
				}
			}
		}
		selected = append(selected, e)
	}

	// Resolve every reference before performing any deletion so the
	// operation reads atomic to the operator.
	for _, rw := range rewrites {
		if err := store.ReplaceReferences(rw.ref, rw.target); err != nil {
			return 0, err
		}
	}

	removed := 0
	for _, e := range selected {
		var err error
		if permanent {
			err = store.DeleteEntry(e)
		} else {
			err = store.RecycleEntry(e)
		}
		if err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (w *Workflow) confirmRemove(client model.Client, vaultName string, entries []*model.Entry) (bool, error) {
	fmt.Fprintln(w.out, i18n.T("authz.remove.header_permanent", client, vaultName))
	for i, e := range entries {
		fmt.Fprintln(w.out, "\t"+i18n.T("authz.remove.entry_line", i+1, e.Title))
	}
	fmt.Fprintln(w.out)

	choice, err := w.ask.Ask(i18n.T("authz.remove.choose"),
		[]string{i18n.T("authz.remove.allow"), i18n.T("authz.remove.deny")},
		[][]string{prompt.Aliases("authz.alias.allow"), prompt.Aliases("authz.alias.deny")})
	if err != nil {
		return false, err
	}
	return choice == 0, nil
}
