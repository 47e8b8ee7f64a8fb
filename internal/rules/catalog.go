package rules

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileSuffix selects rule-definition files inside the rules directory.
const FileSuffix = ".rewriterules"

// Catalog is the immutable set of loaded rules, in definition order. Build
// one at startup and share it; concurrent readers need no locking.
type Catalog struct {
	rules []*Rule
}

// NewCatalog wraps an explicit rule list, mainly for tests.
func NewCatalog(rules []*Rule) *Catalog {
	return &Catalog{rules: rules}
}

// Rules returns the rules in definition order. Callers must not mutate the
// returned slice's elements.
func (c *Catalog) Rules() []*Rule {
	out := make([]*Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Len reports the number of loaded rules.
func (c *Catalog) Len() int { return len(c.rules) }

// ByName returns the first rule with the given name, or nil.
func (c *Catalog) ByName(name string) *Rule {
	for _, r := range c.rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// LoadDir builds a catalog from every rule file in dir. Loading never
// fails: a missing directory yields an empty catalog, an unreadable file or
// malformed line is logged and skipped, and whatever parses cleanly is
// kept. Definition order follows lexical file order, then line order.
func LoadDir(dir string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("rules directory unavailable, starting with empty catalog",
			zap.String("dir", dir), zap.Error(err))
		return &Catalog{}
	}

	var rules []*Rule
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileSuffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable rule file", zap.String("path", path), zap.Error(err))
			continue
		}
		for i, line := range strings.Split(string(data), "\n") {
			rule, err := ParseLine(line)
			if err != nil {
				logger.Warn("skipping malformed rule line",
					zap.String("path", path), zap.Int("line", i+1), zap.Error(err))
				continue
			}
			if rule == nil {
				continue
			}
			rules = append(rules, rule)
		}
		logger.Info("loaded rule file", zap.String("path", path))
	}
	logger.Info("rule catalog ready", zap.Int("rules", len(rules)))
	return &Catalog{rules: rules}
}
