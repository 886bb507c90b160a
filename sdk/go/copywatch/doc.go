// Package copywatch provides in-process content-policy enforcement for Go
// generation pipelines. It wraps text-producing functions, checks their
// output against the rule store's forbidden words and pairings, and blocks
// violating text before it reaches publishing.
//
// Usage:
//
//	cw, err := copywatch.New(copywatch.WithConfigPath("~/.copywatch/config.yaml"))
//	guarded := cw.Wrap(myGenerator, copywatch.WrapWithBrief())
//	text, err := guarded(ctx, "write a supplement ad")
//	var blocked *copywatch.BlockedError
//	if errors.As(err, &blocked) {
//	    // blocked.Result explains which rules were violated
//	}
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/ppiankov/copywatch/sdk/go/copywatch.
package copywatch
