// JSONL file row source.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// ReadJSONL reads a JSONL file and returns each non-empty line as a Row.
// Lines that are not valid JSON objects are skipped; exported data sets
// routinely carry a trailing comment or a truncated last line, and one bad
// line should not make the whole file unusable.
func ReadJSONL(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []Row
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row Row
		if err := json.Unmarshal(line, &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return rows, nil
}
