package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

func TestLoadConfigDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sccli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheme: Kyber-KEM\nparam_set: 1\ncoder: huffman_static\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Kyber-KEM", cfg.Scheme)
	assert.Equal(t, 1, cfg.ParamSet)
	assert.Equal(t, "huffman_static", cfg.Coder)
}

func TestResolveSchemeKnownAndUnknown(t *testing.T) {
	k, err := resolveScheme(scheme.BLISS.String())
	require.NoError(t, err)
	assert.Equal(t, scheme.BLISS, k)

	_, err = resolveScheme("not-a-real-scheme")
	assert.Error(t, err)
}
