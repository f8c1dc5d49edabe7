package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const addFixtureYAML = `
module: test
functions:
  - name: add
    public: true
    return: { name: Int }
    clauses:
      - params:
          - { kind: ident, token: a }
          - { kind: ident, token: b }
        body:
          kind: binop
          token: "+"
          children:
            - { kind: ident, token: a }
            - { kind: ident, token: b }
`

func TestLowerCmdPrintsModule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "add.yaml")
	if err := os.WriteFile(path, []byte(addFixtureYAML), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	flagConfig = filepath.Join(dir, "meshc.yaml") // deliberately missing, falls back to defaults
	flagLogLevel = "error"
	flagLogFormat = "text"

	cmd := newLowerCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("lower failed: %v", err)
	}
	if !strings.Contains(out.String(), "fn add(") {
		t.Errorf("expected pretty-printed module to contain fn add(, got %s", out.String())
	}
}

func TestLowerCmdRequiresArgument(t *testing.T) {
	cmd := newLowerCmd()
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when no fixture path is given")
	}
}
