// Package stage implements the four pipeline stages: classify, summarize,
// draft, and review. Each stage has a narrow input/output contract against
// the Record and absorbs remote-call failures at its own boundary, so no
// error ever crosses into the orchestrator.
package stage

import "context"

// Completer is the opaque language-model capability the stages depend on.
// The production implementation is ai.Client; tests substitute a
// deterministic fake.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
