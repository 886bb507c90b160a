package copywatch

import (
	"context"
)

// GenerateFunc is the text-producing function signature that Wrap guards.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Wrap returns a GenerateFunc that checks fn's output before returning it.
// If the output violates any rule, returns a *BlockedError with the text
// and the check result instead of the text.
func (c *Client) Wrap(fn GenerateFunc, opts ...WrapOption) GenerateFunc {
	var wcfg wrapConfig
	for _, o := range opts {
		o(&wcfg)
	}

	return func(ctx context.Context, prompt string) (string, error) {
		if wcfg.injectBrief {
			prompt = c.Brief() + "\n\n" + prompt
		}

		text, err := fn(ctx, prompt)
		if err != nil {
			return "", err
		}

		var result Result
		if wcfg.recheck {
			result = c.Recheck(ctx, text)
		} else {
			result = c.Check(text)
		}

		if result.IsViolating {
			return "", &BlockedError{Text: text, Result: result}
		}
		return text, nil
	}
}
