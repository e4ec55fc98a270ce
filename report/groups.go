package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Group is one line of the stock list file: a named set of symbols analyzed
// together.
type Group struct {
	Name    string
	Symbols []string
}

// ParseGroups reads the stock list format: each non-empty line is a
// comma-separated symbol group, and a `#` comment directly above a group
// names it. Other comment lines and blanks are skipped. Unnamed groups get
// positional names.
func ParseGroups(r io.Reader) ([]Group, error) {
	var (
		groups  []Group
		pending string
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			pending = ""
		case strings.HasPrefix(line, "#"):
			pending = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		default:
			var symbols []string
			for _, s := range strings.Split(line, ",") {
				if s = strings.TrimSpace(s); s != "" {
					symbols = append(symbols, s)
				}
			}
			if len(symbols) == 0 {
				continue
			}
			name := pending
			if name == "" {
				name = fmt.Sprintf("Group %d", len(groups)+1)
			}
			groups = append(groups, Group{Name: name, Symbols: symbols})
			pending = ""
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("report: read stock list: %w", err)
	}
	return groups, nil
}

// LoadGroups parses the stock list file at path.
func LoadGroups(path string) ([]Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("report: open stock list: %w", err)
	}
	defer f.Close()
	return ParseGroups(f)
}

// AllSymbols flattens groups into a deduplicated symbol list, preserving
// first-seen order.
func AllSymbols(groups []Group) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range groups {
		for _, s := range g.Symbols {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
