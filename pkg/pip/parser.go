package pip

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Details holds the metadata stanza printed by `pip show`.
type Details struct {
	Name    string
	Version string
	Fields  map[string]string // every stanza field, including Name and Version
}

// ParseShowOutput parses the `Key: Value` stanza printed by `pip show`.
// Continuation lines (leading whitespace) extend the previous field, the same
// layout Debian control files use for long descriptions.
func ParseShowOutput(out []byte) (*Details, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // long License texts

	fields := make(map[string]string)
	var lastField string

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		// Continuation line extends the previous field.
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if lastField != "" {
				fields[lastField] += "\n" + strings.TrimSpace(line)
			}
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		lastField = strings.TrimSpace(parts[0])
		fields[lastField] = strings.TrimSpace(parts[1])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning show output: %w", err)
	}

	version, ok := fields["Version"]
	if !ok || version == "" {
		return nil, errors.New("show output has no Version field")
	}

	return &Details{
		Name:    fields["Name"],
		Version: version,
		Fields:  fields,
	}, nil
}
