package envutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("UPSKILL_TEST_INT", "abc")
	assert.Equal(t, 7, Int("UPSKILL_TEST_INT", 7))
	t.Setenv("UPSKILL_TEST_INT", " 42 ")
	assert.Equal(t, 42, Int("UPSKILL_TEST_INT", 7))
}

func TestDurations(t *testing.T) {
	t.Setenv("UPSKILL_TEST_SECS", "0")
	assert.Equal(t, time.Minute, Seconds("UPSKILL_TEST_SECS", time.Minute))
	t.Setenv("UPSKILL_TEST_SECS", "5")
	assert.Equal(t, 5*time.Second, Seconds("UPSKILL_TEST_SECS", time.Minute))
	t.Setenv("UPSKILL_TEST_MS", "1500")
	assert.Equal(t, 1500*time.Millisecond, Millis("UPSKILL_TEST_MS", time.Second))
}

func TestListAndBool(t *testing.T) {
	t.Setenv("UPSKILL_TEST_LIST", "a, b,,c ")
	assert.Equal(t, []string{"a", "b", "c"}, List("UPSKILL_TEST_LIST", nil))
	t.Setenv("UPSKILL_TEST_BOOL", "on")
	assert.True(t, Bool("UPSKILL_TEST_BOOL", false))
	t.Setenv("UPSKILL_TEST_BOOL", "maybe")
	assert.False(t, Bool("UPSKILL_TEST_BOOL", false))
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("UPSKILL_DOTENV_A=file\nUPSKILL_DOTENV_B=file\n"), 0o600))

	t.Setenv("UPSKILL_DOTENV_A", "process")
	os.Unsetenv("UPSKILL_DOTENV_B")
	t.Cleanup(func() { os.Unsetenv("UPSKILL_DOTENV_B") })

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "process", os.Getenv("UPSKILL_DOTENV_A"))
	assert.Equal(t, "file", os.Getenv("UPSKILL_DOTENV_B"))
}
