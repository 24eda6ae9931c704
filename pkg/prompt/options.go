package prompt

import "io"

// Theme captures optional formatting prefixes applied when printing prompt
// and info messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Option configures a Runner.
type Option func(*Runner)

// WithDriver overrides the prompt driver used by the runner.
func WithDriver(driver Driver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithDefaults supplies per-label default answers that take precedence over
// the defaults declared in the schema.
func WithDefaults(defaults map[string]string) Option {
	return func(r *Runner) {
		if len(defaults) == 0 {
			return
		}
		if r.defaults == nil {
			r.defaults = make(map[string]string, len(defaults))
		}
		for label, value := range defaults {
			r.defaults[label] = value
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithOutput redirects messages printed by the default driver.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		if out != nil {
			r.out = out
		}
	}
}

// WithPageSize caps how many options a select prompt shows at once.
func WithPageSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.pageSize = n
		}
	}
}
