package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeEdgeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edges.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCommandAcyclic(t *testing.T) {
	path := writeEdgeFile(t, "0 1\n1 2\n0 2\n")
	out, err := execute(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "accepted") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestCheckCommandCyclic(t *testing.T) {
	path := writeEdgeFile(t, "0 1\n1 2\n2 0\n")
	out, err := execute(t, "check", path)
	if err == nil {
		t.Fatalf("check on cyclic input succeeded:\n%s", out)
	}
	if !strings.Contains(out, "2 -> 0") {
		t.Errorf("rejected edge not reported:\n%s", out)
	}
}

func TestCheckCommandNoCache(t *testing.T) {
	path := writeEdgeFile(t, "0 1\n1 0\n")
	if _, err := execute(t, "check", "--no-cache", path); err == nil {
		t.Fatal("check --no-cache on cyclic input succeeded")
	}
}

func TestCheckCommandMissingFile(t *testing.T) {
	if _, err := execute(t, "check", filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("check on missing file succeeded")
	}
}

func TestRenderCommandDOT(t *testing.T) {
	path := writeEdgeFile(t, "0 1\n1 2\n")
	output := filepath.Join(t.TempDir(), "graph.dot")
	if _, err := execute(t, "render", path, "-f", "dot", "-o", output); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "0 -> 1;") {
		t.Errorf("DOT output missing edge:\n%s", data)
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	path := writeEdgeFile(t, "0 1\n")
	if _, err := execute(t, "render", path, "-f", "gif"); err == nil {
		t.Fatal("render with unknown format succeeded")
	}
}

func TestAuditCommand(t *testing.T) {
	scenario := filepath.Join(t.TempDir(), "audit.toml")
	content := "vertices = 16\niterations = 64\nremove_probability = 0.25\nseed = 2\nmode = \"reach-without-link\"\n"
	if err := os.WriteFile(scenario, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "audit", "--config", scenario)
	if err != nil {
		t.Fatalf("audit: %v\n%s", err, out)
	}
	if !strings.Contains(out, "engine matches oracle") {
		t.Errorf("missing success line:\n%s", out)
	}
}

func TestSoakCommandPlain(t *testing.T) {
	scenario := filepath.Join(t.TempDir(), "soak.toml")
	content := "vertices = 24\niterations = 100\nremove_probability = 0.2\nmode = \"cached\"\n"
	if err := os.WriteFile(scenario, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "soak", "--plain", "--config", scenario, "--seed", "4")
	if err != nil {
		t.Fatalf("soak: %v\n%s", err, out)
	}
	for _, want := range []string{"cycles rejected", "engine matches oracle"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}
