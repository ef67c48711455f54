package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// AppendHistory appends the report as one JSON line to the history file,
// creating it if needed. The file is guarded with an advisory lock so that
// concurrent runs writing the same history do not interleave lines.
func AppendHistory(path string, report Report) error {
	line, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock history file: %w", err)
	}
	defer lock.Unlock()

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write history entry: %w", err)
	}
	return nil
}
