// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package authz turns remote access requests into per-entry authorization
// outcomes by asking the operator. It depends only on a prompt capability
// and on storage collaborators, never on the input machinery itself.
package authz

// Decision is a per-entry authorization outcome. The *Once values apply
// to the current request only; Allowed and Denied are durable policy the
// caller may persist and replay on subsequent requests without prompting.
type Decision int

const (
	Undecided Decision = iota
	AllowedOnce
	DeniedOnce
	Allowed
	Denied
)

func (d Decision) String() string {
	switch d {
	case Undecided:
		return "undecided"
	case AllowedOnce:
		return "allowed-once"
	case DeniedOnce:
		return "denied-once"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Durable reports whether the decision may be persisted across requests.
func (d Decision) Durable() bool {
	return d == Allowed || d == Denied
}

// Grants reports whether the decision allows access for this request.
func (d Decision) Grants() bool {
	return d == Allowed || d == AllowedOnce
}

// Decided reports whether any decision was taken at all.
func (d Decision) Decided() bool {
	return d != Undecided
}
