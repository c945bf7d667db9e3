// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package lineio implements the asynchronous line reader that feeds the
// interactive session, plus the pause/resume guard that lets nested prompts
// borrow the terminal from the main command loop.
//
// A Source delivers completed input lines on a channel while it is armed.
// Pausing detaches delivery so a nested prompt can read synchronously via
// ReadLine; resuming re-renders the session prompt and re-arms delivery.
// The terminal is the only shared resource here, and the Guard's
// single-holder rule is the only lock protecting it.
//
// Two backends satisfy the same contract: a plain buffered reader, and an
// editline reader with history and in-line editing. The editline engine
// owns process-global terminal state, so at most one editline source may
// exist at a time; constructing a second one fails loudly.
//
// A line completed but not yet delivered when Pause is called is discarded
// by both backends. Bytes of a partially typed line still sitting in the
// OS line buffer are outside the process's control and are left there.
package lineio
