package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"gmcheck"}, args...))
	return stdout.String(), err
}

func TestEncryptDecrypt(t *testing.T) {
	for _, engine := range []string{"reference", "ttable"} {
		t.Run(engine, func(t *testing.T) {
			out, err := runApp(t, "encrypt", "--key", sm4Key, "--engine", engine, sm4Plaintext)
			require.NoError(t, err)
			assert.Equal(t, sm4Ciphertext+"\n", out)

			out, err = runApp(t, "decrypt", "--key", sm4Key, "--engine", engine, sm4Ciphertext)
			require.NoError(t, err)
			assert.Equal(t, sm4Plaintext+"\n", out)
		})
	}
}

func TestEncryptErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		msg  string
	}{
		{"bad_key_hex", []string{"encrypt", "--key", "zz", sm4Plaintext}, "invalid key"},
		{"short_key", []string{"encrypt", "--key", "0011", sm4Plaintext}, "invalid key size"},
		{"short_block", []string{"encrypt", "--key", sm4Key, "0011"}, "invalid block size"},
		{"no_block", []string{"encrypt", "--key", sm4Key}, "expected exactly one hex block"},
		{"unknown_engine", []string{"decrypt", "--key", sm4Key, "--engine", "gpu", sm4Plaintext}, "unknown SM4 engine"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runApp(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestHash(t *testing.T) {
	for _, engine := range []string{"reference", "vector"} {
		t.Run(engine, func(t *testing.T) {
			out, err := runApp(t, "hash", "--engine", engine, "abc", "")
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 2)
			assert.True(t, strings.HasPrefix(lines[0], sm3Vectors[1].want))
			assert.True(t, strings.HasPrefix(lines[1], sm3Vectors[0].want))
		})
	}

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "input")
		require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))
		out, err := runApp(t, "hash", "--file", path)
		require.NoError(t, err)
		assert.Equal(t, sm3Vectors[1].want+"  "+path+"\n", out)
	})

	t.Run("unknown_engine", func(t *testing.T) {
		_, err := runApp(t, "hash", "--engine", "gpu", "abc")
		assert.ErrorContains(t, err, "unknown SM3 engine")
	})
}

func TestVectors(t *testing.T) {
	assert.Zero(t, runVectors(false))

	_, err := runApp(t, "vectors")
	assert.NoError(t, err)
}

func TestBench(t *testing.T) {
	results, err := runBench(10*time.Millisecond, 256)
	require.NoError(t, err)
	require.Len(t, results, len(cipherEngines())+len(hashEngines()))
	for _, r := range results {
		assert.Positive(t, r.ops, "%s/%s", r.algorithm, r.engine)
		assert.Positive(t, r.mbPerSec(), "%s/%s", r.algorithm, r.engine)
	}

	var buf bytes.Buffer
	writeBench(&buf, results)
	assert.Contains(t, buf.String(), "CPU features")
	assert.Contains(t, buf.String(), "ttable")
	assert.Contains(t, buf.String(), "vector")

	_, err = runApp(t, "bench", "--duration", "0s")
	assert.ErrorContains(t, err, "duration must be positive")
}
