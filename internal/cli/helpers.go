package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/copywatch/internal/config"
	"github.com/ppiankov/copywatch/internal/engine"
)

// openEngine loads the config file and assembles the engine.
func openEngine(ctx context.Context) (*engine.Engine, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	eng, err := engine.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return eng, nil
}

// textFromArgsOrStdin joins positional args into the text to check, or
// reads stdin when no args are given (pipe-friendly).
func textFromArgsOrStdin(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := readStdin()
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given: pass it as an argument or pipe it to stdin")
	}
	return text, nil
}

func readStdin() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}
