package importer

import "fmt"

var (
	// ErrNoDocument the import task found no parsed document in its chain
	ErrNoDocument = fmt.Errorf("importer: no parsed document in chain")
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("importer: invalid config: %s", msg)
}

// ErrOpen the file could not be opened or read
func ErrOpen(path string, err error) error {
	return fmt.Errorf("importer: open %s: %w", path, err)
}

// ErrParse a row does not fit the sheet layout
func ErrParse(row int, msg string) error {
	return fmt.Errorf("importer: row %d: %s", row, msg)
}

// ErrImport the catalog rebuild failed and was rolled back
func ErrImport(err error) error {
	return fmt.Errorf("importer: import failed: %w", err)
}

// ErrRecord a record of the document was rejected by the catalog
func ErrRecord(kind, title string, err error) error {
	return fmt.Errorf("importer: %s %q: %w", kind, title, err)
}
