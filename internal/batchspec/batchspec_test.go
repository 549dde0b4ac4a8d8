// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package batchspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
specs:
  - owner: "EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAM9c"
    start: "ABCD"
    case_sensitive: true
    fixed_prefix_length: 8
  - owner: "EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAM9c"
    end: "zy"
    case_sensitive: false
    masterchain: true
`

func TestLoadParsesMultipleSpecs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	require.Equal(t, "ABCD", specs[0].Start)
	require.Equal(t, 8, specs[0].FixedPrefixLength)
	require.Equal(t, "zy", specs[1].End)
	require.True(t, specs[1].Masterchain)
}

func TestLoadRejectsEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("specs: []\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/to/batch.yaml")
	require.Error(t, err)
}
