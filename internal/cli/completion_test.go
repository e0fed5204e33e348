package cli

import (
	"bytes"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestFormatCompletion(t *testing.T) {
	valid := map[string]bool{"json": true, "png": true, "svg": true}
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"json", "png", "svg"}},
		{"json,", []string{"json,png", "json,svg"}},
		{"json,svg,", []string{"json,svg,png"}},
	}
	for _, tt := range tests {
		got, directive := formatCompletion(valid)(nil, nil, tt.toComplete)
		if !slices.Equal(got, tt.want) {
			t.Errorf("formatCompletion(%q) = %v, want %v", tt.toComplete, got, tt.want)
		}
		if directive&cobra.ShellCompDirectiveNoFileComp == 0 {
			t.Errorf("formatCompletion(%q) should disable file completion", tt.toComplete)
		}
	}
}

func TestRegisterCompletions(t *testing.T) {
	root := New(os.Stderr, log.FatalLevel).RootCommand()
	for _, name := range []string{"extract", "render", "quantize", "inspect"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if cmd.ValidArgsFunction == nil {
			t.Errorf("%s has no argument completion", name)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	var out bytes.Buffer
	old := stdout
	stdout = &out
	t.Cleanup(func() { stdout = old })

	root := New(os.Stderr, log.FatalLevel).RootCommand()
	root.SetArgs([]string{"--config", writeConfig(t, testConfig), "completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out.String(), "glyphgraph") {
		t.Error("bash completion should mention the command name")
	}
}
