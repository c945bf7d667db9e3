// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package authz

import (
	"fmt"
	"io"

	"github.com/lockboxhq/lockbox/internal/i18n"
	"github.com/lockboxhq/lockbox/internal/model"
	"github.com/lockboxhq/lockbox/internal/prompt"
)

// Asker is the single interaction capability the workflow needs.
type Asker interface {
	Ask(message string, labels []string, aliases [][]string) (int, error)
	AskYesNo(message string) (bool, error)
}

// Settings provides the deletion confirmation switch, read once per
// removal request.
type Settings interface {
	ConfirmRemove() bool
}

// Store is the storage collaborator consulted during removal requests.
type Store interface {
	ReferencesTo(e *model.Entry) ([]*model.Entry, error)
	ReplaceReferences(ref, target *model.Entry) error
	Resolve(s string) (string, error)
	RecycleEntry(e *model.Entry) error
	DeleteEntry(e *model.Entry) error
}

// Workflow is the decision engine for unlock and removal requests.
type Workflow struct {
	ask      Asker
	out      io.Writer
	settings Settings
}

// New returns a workflow asking questions through ask and writing
// listings to out.
func New(ask Asker, out io.Writer, settings Settings) *Workflow {
	return &Workflow{ask: ask, out: out, settings: settings}
}

type action int

const (
	allowAll action = iota
	denyAll
	allowSelected
)

// RequestUnlock asks the operator whether client may read the requested
// entries. It returns per-entry decisions keyed by entry ID, plus a
// blanket future policy for entries not covered by the decision set.
// Exhausted input cancels the whole request: no decisions are recorded
// and the caller must treat the request as fully denied.
func (w *Workflow) RequestUnlock(client model.Client, entries []*model.Entry) (map[string]Decision, Decision, error) {
	fmt.Fprintln(w.out, i18n.T("authz.unlock.header", client))
	for i, e := range entries {
		fmt.Fprintln(w.out, i18n.T("authz.unlock.entry_line", i+1, e.Title, e.Username))
	}

	choice, err := w.ask.Ask(i18n.T("authz.unlock.choose"),
		[]string{
			i18n.T("authz.unlock.allow_all"),
			i18n.T("authz.unlock.deny_all"),
			i18n.T("authz.unlock.allow_selected"),
		},
		[][]string{
			prompt.Aliases("authz.alias.allow_all"),
			prompt.Aliases("authz.alias.deny_all"),
			prompt.Aliases("authz.alias.allow_selected"),
		})
	if err != nil {
		return nil, Undecided, err
	}

	var act action
	var decision Decision
	var actionStr string
	switch choice {
	case 0:
		act, decision, actionStr = allowAll, AllowedOnce, i18n.T("authz.action.allow_all")
	case 1:
		act, decision, actionStr = denyAll, DeniedOnce, i18n.T("authz.action.deny_all")
	case 2:
		act, decision, actionStr = allowSelected, AllowedOnce, i18n.T("authz.action.allow_selected")
	}

	decisions := make(map[string]Decision, len(entries))
	for _, e := range entries {
		undecided := false
		if act == allowSelected {
			yes, err := w.ask.AskYesNo(i18n.T("authz.unlock.per_entry", client, e.Title, e.Username))
			if err != nil {
				return nil, Undecided, err
			}
			// "No" excludes the entry from this grant; the caller falls
			// back to its default policy instead of recording a denial.
			undecided = !yes
		}
		if undecided {
			decisions[e.ID] = Undecided
		} else {
			decisions[e.ID] = decision
		}
	}

	if act == allowSelected {
		fmt.Fprintln(w.out, i18n.T("authz.unlock.warn_selected"))
	} else {
		fmt.Fprintln(w.out, i18n.T("authz.unlock.warn_all"))
	}
	remember, err := w.ask.AskYesNo(i18n.T("authz.unlock.remember", actionStr, client))
	if err != nil {
		return nil, Undecided, err
	}

	future := Undecided
	if remember {
		switch act {
		case allowSelected:
			decision = Allowed
		case allowAll:
			decision = Allowed
			future = Allowed
		case denyAll:
			decision = Denied
			future = Denied
		}
		for _, e := range entries {
			if decisions[e.ID] != Undecided {
				decisions[e.ID] = decision
			}
		}
	}

	return decisions, future, nil
}
