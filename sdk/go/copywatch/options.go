package copywatch

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	configPath    string
	memoryStorage bool
}

// WithConfigPath sets the path to the config YAML file.
func WithConfigPath(path string) Option {
	return func(c *clientConfig) { c.configPath = path }
}

// WithMemoryStorage keeps rules in process memory regardless of config.
// Useful for tests and short-lived pipelines.
func WithMemoryStorage() Option {
	return func(c *clientConfig) { c.memoryStorage = true }
}

// WrapOption configures a single Wrap call.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	recheck     bool
	injectBrief bool
}

// WrapWithRecheck runs the AI second pass on locally clean output when a
// judge is configured.
func WrapWithRecheck() WrapOption {
	return func(w *wrapConfig) { w.recheck = true }
}

// WrapWithBrief prepends the policy brief to the prompt so the generator
// avoids violations up front.
func WrapWithBrief() WrapOption {
	return func(w *wrapConfig) { w.injectBrief = true }
}
