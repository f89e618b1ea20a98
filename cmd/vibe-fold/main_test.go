package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree with a fresh config and an empty home
// directory.
func runCLI(t *testing.T, home string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "vibe-fold version dev")
}

func TestFoldSingleSequence(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), "fold", "--seq", "GGGAAACCC", "--id", "hp", "-f", "db")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, ">hp\nGGGAAACCC\n(((...)))\n", stdout)
}

func TestFoldTab(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), "fold", "--seq", "gggaaaccc", "--id", "hp", "-f", "tab")
	assert.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, "#ID\t"))
	assert.Contains(t, stdout, "hp\t9\t9\t1\t(((...)))\t")
}

func TestFoldReport(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), "fold", "--seq", "GGGAAACCC", "--all")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "score max =")
	assert.Contains(t, stdout, "score: 9")
}

func TestFoldFastaToFile(t *testing.T) {
	in := writeTestFile(t, "in.fa", ">a\nGGGAAACCC\n>b\nGGGAAACCCAGGGAAACCC\n")
	out := filepath.Join(t.TempDir(), "out.db")

	code, _, _ := runCLI(t, t.TempDir(), "fold", "-f", "db", "-o", out, in)
	require.Equal(t, ExitSuccess, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ">a\nGGGAAACCC\n(((...)))\n>b\nGGGAAACCCAGGGAAACCC\n(((...))).(((...)))\n", string(data))
}

func TestFoldMinLoopFlag(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), "fold", "--seq", "GAAC", "--min-loop", "1", "-f", "db")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, ">seq\nGAAC\n(..)\n", stdout)

	code, stdout, _ = runCLI(t, t.TempDir(), "fold", "--seq", "GAAC", "-f", "db")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, ">seq\nGAAC\n....\n", stdout)
}

func TestFoldMatrixCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	code, _, _ := runCLI(t, t.TempDir(), "fold", "--seq", "GGGAAACCC", "-f", "db", "--matrix-csv", path)
	require.Equal(t, ExitSuccess, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, " ,G,G,G,A,A,A,C,C,C", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "G,0,"))
	assert.True(t, strings.HasSuffix(lines[1], ",9"))
}

func TestFoldUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"fold"}},
		{"seq and file", []string{"fold", "--seq", "GC", "x.fa"}},
		{"unknown format", []string{"fold", "--seq", "GC", "-f", "json"}},
		{"matrix without seq", []string{"fold", "--matrix-csv", "m.csv", "x.fa"}},
		{"unknown flag", []string{"fold", "--nope"}},
		{"negative min loop", []string{"fold", "--seq", "GGGGAAACCCC", "--min-loop=-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, t.TempDir(), tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestNegativeMinLoopRejected(t *testing.T) {
	path := writeTestFile(t, "s.db", ">a\nGGGAAACCC\n(((...)))\n")

	for _, args := range [][]string{
		{"validate", "--min-loop=-2", path},
		{"compare", "--min-loop=-2", path},
		{"tree", "--seq", "GGGAAACCC", "--structure", "(((...)))", "--min-loop=-2"},
	} {
		code, stdout, stderr := runCLI(t, t.TempDir(), args...)
		assert.Equal(t, ExitUsage, code, args[0])
		assert.Empty(t, stdout, args[0])
		assert.Contains(t, stderr, "--min-loop must be non-negative", args[0])
	}
}

func TestNegativeMinLoopFromConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".vibe-fold.yaml"), []byte("fold:\n  min_loop: -1\n"), 0644))

	code, stdout, _ := runCLI(t, home, "fold", "--seq", "GGGGAAACCCC", "-f", "db")
	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, stdout)
}

func TestFoldInvalidSequence(t *testing.T) {
	code, _, stderr := runCLI(t, t.TempDir(), "fold", "--seq", "GGXCC")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "invalid residue")
}

func TestFoldMissingFile(t *testing.T) {
	code, _, _ := runCLI(t, t.TempDir(), "fold", filepath.Join(t.TempDir(), "missing.fa"))
	assert.Equal(t, ExitError, code)
}

func TestValidate(t *testing.T) {
	path := writeTestFile(t, "s.db", ">good\nGGGAAACCC\n(((...)))\n>bad\nGGGAAACCC\n((....)))\n")

	code, stdout, stderr := runCLI(t, t.TempDir(), "validate", path)
	assert.Equal(t, ExitError, code)
	assert.Equal(t, ">good\nGGGAAACCC\n(((...)))\n", stdout)
	assert.Contains(t, stderr, "1 valid, 1 invalid")
	assert.Contains(t, stderr, "bad")
}

func TestValidateAllGood(t *testing.T) {
	path := writeTestFile(t, "s.db", ">good\nGGGAAACCC\n(((...)))\n")

	code, stdout, stderr := runCLI(t, t.TempDir(), "validate", "-q", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "1 valid, 0 invalid")
}

func TestValidateConnectTable(t *testing.T) {
	path := writeTestFile(t, "hp.ct", "9\thp\n1\tG\t9\n2\tG\t8\n3\tG\t7\n4\tA\t0\n5\tA\t0\n6\tA\t0\n7\tC\t3\n8\tC\t2\n9\tC\t1\n")

	code, stdout, _ := runCLI(t, t.TempDir(), "validate", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, ">hp.ct\nGGGAAACCC\n(((...)))\n", stdout)
}

func TestCompare(t *testing.T) {
	path := writeTestFile(t, "s.db",
		">a\nGGGAAACCC\n(((...)))\n"+
			">b\nGGAAAACC\n((....))\n"+
			">c\nGGGAAACCCAGGGAAACCC\n(((...))).(((...)))\n")

	code, stdout, stderr := runCLI(t, t.TempDir(), "compare", "--all", path)
	assert.Equal(t, ExitSuccess, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Y")
	assert.Contains(t, stderr, "Total pairs:     3")
	assert.Contains(t, stderr, "Same topology:   1 (33.3%)")
}

func TestCompareIDs(t *testing.T) {
	path := writeTestFile(t, "s.db", ">a\nGGGAAACCC\n(((...)))\n>b\nGGAAAACC\n((....))\n")

	code, _, stderr := runCLI(t, t.TempDir(), "compare", "--ids", "a,b", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "Same topology:   1 (100.0%)")

	code, _, stderr = runCLI(t, t.TempDir(), "compare", "--ids", "a,zzz", path)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "zzz")
}

func TestTree(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), "tree", "--seq", "GGGAAACCCAGGGAAACCC", "--structure", "(((...))).(((...)))")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "loop tree:\nR\n")
	assert.Contains(t, stdout, "compacted: ")
}

func TestTreeInvalidStructure(t *testing.T) {
	code, _, stderr := runCLI(t, t.TempDir(), "tree", "--seq", "GGGAAACCC", "--structure", "((....)))")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "unbalanced")

	code, _, _ = runCLI(t, t.TempDir(), "tree", "--seq", "GGGAAACCC")
	assert.Equal(t, ExitUsage, code)
}

func TestConfigSetGet(t *testing.T) {
	home := t.TempDir()

	code, stdout, _ := runCLI(t, home, "config", "set", "fold.min_loop", "4")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Set fold.min_loop = 4")
	assert.FileExists(t, filepath.Join(home, ".vibe-fold.yaml"))

	code, stdout, _ = runCLI(t, home, "config", "get", "fold.min_loop")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "4\n", stdout)

	// The stored default applies to fold.
	code, stdout, _ = runCLI(t, home, "fold", "--seq", "GAAAC", "-f", "db")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, ">seq\nGAAAC\n.....\n", stdout)
}

func TestConfigShow(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), "config")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "min_loop: 3")
}

func TestFoldCacheAndSearch(t *testing.T) {
	home := t.TempDir()
	cache := filepath.Join(t.TempDir(), "cache.duckdb")

	code, _, _ := runCLI(t, home, "fold", "--cache", cache, "--id", "twin",
		"--seq", "GGGAAACCCAGGGAAACCC", "-f", "db")
	require.Equal(t, ExitSuccess, code)

	code, stdout, stderr := runCLI(t, home, "search", "--cache", cache, "((...))..((....))")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "twin")
	assert.Contains(t, stderr, "topology (.).(.)")

	code, _, _ = runCLI(t, home, "search", "(.)")
	assert.Equal(t, ExitUsage, code)

	code, stdout, _ = runCLI(t, home, "cache", "clear", "--cache", cache)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Cleared cached predictions in "+cache+"\n", stdout)

	code, stdout, stderr = runCLI(t, home, "search", "--cache", cache, "(.).(.)")
	require.Equal(t, ExitSuccess, code)
	assert.NotContains(t, stdout, "twin")
	assert.Contains(t, stderr, "0 structure(s)")
}

func TestCacheClearRequiresPath(t *testing.T) {
	code, _, stderr := runCLI(t, t.TempDir(), "cache", "clear")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "prediction cache is required")
}

func TestFoldReportShowsDescription(t *testing.T) {
	in := writeTestFile(t, "in.fa", ">hp test hairpin\nGGGAAACCC\n")

	code, stdout, _ := runCLI(t, t.TempDir(), "fold", in)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "description: test hairpin\n")
}
