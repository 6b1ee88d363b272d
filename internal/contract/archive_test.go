package contract

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildArchive(t *testing.T) {
	entries := []ArchiveEntry{
		{ContractID: "11111111-1111-1111-1111-111111111111", Content: "<p>one</p>"},
		{ContractID: "22222222-2222-2222-2222-222222222222", Content: ""},
	}

	data, err := BuildArchive(entries)
	assert.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err)
	if !assert.Len(t, reader.File, 2) {
		return
	}

	assert.Equal(t, "contract_11111111-1111-1111-1111-111111111111.html", reader.File[0].Name)
	assert.Equal(t, "contract_22222222-2222-2222-2222-222222222222.html", reader.File[1].Name)

	rc, err := reader.File[0].Open()
	assert.NoError(t, err)
	content, err := io.ReadAll(rc)
	assert.NoError(t, err)
	rc.Close()
	assert.Equal(t, "<p>one</p>", string(content))
}

func TestBuildArchive_Empty(t *testing.T) {
	data, err := BuildArchive(nil)
	assert.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err)
	assert.Empty(t, reader.File)
}
