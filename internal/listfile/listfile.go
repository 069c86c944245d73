// Package listfile parses caller-supplied candidate lists, one company per
// line: "Name | domain.com | one-liner" with an optional fourth contact-email
// column. A single bare token containing a dot and no space is treated as
// both name and domain.
package listfile

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/normalize"
)

// Parse reads the list file at path into candidates, deduplicated by
// normalized domain when present, else by normalized name. Blank lines and
// lines starting with '#' are skipped. A missing file is an error.
func Parse(path string) ([]model.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "listfile: open %s", path)
	}
	defer f.Close()

	var out []model.Candidate
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, parseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "listfile: read %s", path)
	}
	return model.DedupeCandidates(out), nil
}

func parseLine(line string) model.Candidate {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var c model.Candidate
	switch {
	case len(parts) >= 3:
		c.Name, c.Domain = parts[0], parts[1]
		c.OneLiner = truncate(parts[2], model.OneLinerMaxLen)
	case len(parts) == 2:
		c.Name, c.Domain = parts[0], parts[1]
	default:
		token := parts[0]
		if strings.Contains(token, ".") && !strings.Contains(token, " ") {
			c.Name, c.Domain = token, token
		} else {
			c.Name = token
		}
	}
	if len(parts) >= 4 && parts[3] != "" {
		c.Email = normalize.ExtractEmail(parts[3])
	}
	if c.Name == "" {
		c.Name = c.Key()
	}
	return c
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
