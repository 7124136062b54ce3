package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestOptionalFlagsOnlyWhenSet(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Int("age", 0, "")
	cmd.Flags().Int("nps", 0, "")
	cmd.Flags().String("reason", "", "")
	cmd.Flags().String("note", "", "")
	if err := cmd.ParseFlags([]string{"--age", "0", "--reason", "母の記録を残したい"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	if got := optionalInt(cmd, "age"); got == nil || *got != 0 {
		t.Fatalf("age = %v, want explicit 0", got)
	}
	if got := optionalInt(cmd, "nps"); got != nil {
		t.Fatalf("nps = %v, want nil when unset", *got)
	}
	if got := optionalString(cmd, "reason"); got == nil || *got != "母の記録を残したい" {
		t.Fatalf("reason = %v", got)
	}
	if got := optionalString(cmd, "note"); got != nil {
		t.Fatalf("note = %q, want nil when unset", *got)
	}
}

func TestResolveText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session1.txt")
	if err := os.WriteFile(path, []byte("  昭和二十年、福岡生まれ。\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().String("text", "", "")
		cmd.Flags().String("text-file", "", "")
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}
		return cmd
	}

	got, err := resolveText(newCmd("--text-file", path))
	if err != nil || got != "昭和二十年、福岡生まれ。" {
		t.Fatalf("resolveText(file) = %q, %v", got, err)
	}

	got, err = resolveText(newCmd())
	if err != nil || got != "" {
		t.Fatalf("resolveText(empty) = %q, %v", got, err)
	}

	if _, err := resolveText(newCmd("--text", "a", "--text-file", path)); err == nil {
		t.Fatal("expected mutually exclusive error")
	}
}

func TestCustomerCommandsAgainstSQLite(t *testing.T) {
	t.Setenv("LS_DATABASE_DSN", filepath.Join(t.TempDir(), "cli.sqlite"))

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("%v error = %v", args, err)
		}
		return out.String()
	}
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	applied := run("customer", "apply", "--name", "山田花子", "--email", "hanako@example.com", "--phone", "090-0000-0000", "--age", "78")
	if !strings.HasPrefix(applied, "created customer: ") || !strings.Contains(applied, "status=applied") {
		t.Fatalf("apply output = %q", applied)
	}

	listed := run("customer", "list")
	if !strings.Contains(listed, "name=山田花子") || !strings.Contains(listed, "[applied]") {
		t.Fatalf("list output = %q", listed)
	}

	catalog := run("catalog")
	if !strings.Contains(catalog, "session 1:") || !strings.Contains(catalog, "chapter 5:") {
		t.Fatalf("catalog output = %q", catalog)
	}
}
