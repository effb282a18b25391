package ignore

import "github.com/bethropolis/bmt/internal/utils"

// Option functions for configuring an Engine
type Option func(*Engine)

// WithLogger sets the logger used for warnings about unreadable sources
// and skipped lines.
func WithLogger(logger utils.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.log = logger
		}
	}
}

// WithGitignoreFiles controls whether .gitignore files and the repository
// exclude file are read. When disabled, only additional patterns apply.
func WithGitignoreFiles(enabled bool) Option {
	return func(e *Engine) {
		e.useGitignoreFiles = enabled
	}
}

// WithAdditionalPatterns appends caller-supplied patterns to the root
// pattern stack. They sit after the file-derived patterns, so under
// last-match-wins they take precedence. Bad patterns are skipped.
func WithAdditionalPatterns(patterns []string) Option {
	return func(e *Engine) {
		for i, raw := range patterns {
			src := Provenance{File: "additional", Line: i + 1}
			p, err := CompileLine(raw, src, "")
			if err != nil {
				e.log.Warn("ignore: skipping additional pattern %q: %v", raw, err)
				continue
			}
			if p != nil {
				e.additional = append(e.additional, *p)
			}
		}
	}
}
