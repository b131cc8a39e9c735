// Package lockfile parses Bundler-style lockfiles into the gem list and the
// gem→remote mapping the verification engine consumes.
package lockfile

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gemward/gemward/internal/models"
)

// Lockfile is the parsed view of a Gemfile.lock: the ordered gem entries plus
// the remote URL each gem was declared under.
type Lockfile struct {
	Gems    []models.GemRef
	Sources map[string]string // gem name -> remote URL
}

// gemLine matches a top-level spec entry: exactly four spaces of indent,
// a name and a parenthesized exact version. Deeper-indented dependency
// constraint lines do not match.
var gemLine = regexp.MustCompile(`^ {4}(\S+) \(([^()\s]+)\)\s*$`)

// Parse reads and parses the lockfile at path. A missing lockfile is the one
// fatal input error: nothing can be checked without it.
func Parse(path string) (*Lockfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lockfile %s: %w", path, err)
	}
	defer f.Close()

	lf := &Lockfile{Sources: make(map[string]string)}
	seen := make(map[string]struct{})

	currentRemote := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "remote:") {
			currentRemote = strings.TrimSpace(strings.TrimPrefix(trimmed, "remote:"))
			continue
		}

		m := gemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		ref := models.GemRef{Name: m[1], Version: m[2]}
		if _, dup := seen[ref.Key()]; dup {
			continue
		}
		seen[ref.Key()] = struct{}{}

		lf.Gems = append(lf.Gems, ref)
		if currentRemote != "" {
			lf.Sources[ref.Name] = currentRemote
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lockfile %s: %w", path, err)
	}

	return lf, nil
}
