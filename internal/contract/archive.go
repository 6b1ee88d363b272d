package contract

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// ArchiveEntry is one contract's current content, resolved before packaging.
type ArchiveEntry struct {
	ContractID string
	Content    string
}

// BuildArchive packages entries into a deflated zip. Entry names embed the
// contract id; contracts without a version yet produce empty entries.
func BuildArchive(entries []ArchiveEntry) ([]byte, error) {
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)

	for _, entry := range entries {
		file, err := writer.Create(fmt.Sprintf("contract_%s.html", entry.ContractID))
		if err != nil {
			return nil, err
		}
		if _, err := file.Write([]byte(entry.Content)); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
