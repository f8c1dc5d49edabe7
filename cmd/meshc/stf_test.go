package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSTFEncodeDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "value.json")
	doc := `{"type":{"kind":"int"},"value":{"kind":"int","int":42}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	encodeCmd := newSTFEncodeCmd()
	var encodeOut bytes.Buffer
	encodeCmd.SetOut(&encodeOut)
	encodeCmd.SetArgs([]string{path})
	if err := encodeCmd.Execute(); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	b64 := strings.TrimSpace(encodeOut.String())
	if b64 == "" {
		t.Fatal("expected non-empty base64 output")
	}

	decodeCmd := newSTFDecodeCmd()
	var decodeOut bytes.Buffer
	decodeCmd.SetOut(&decodeOut)
	decodeCmd.SetArgs([]string{b64})
	if err := decodeCmd.Execute(); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !strings.Contains(decodeOut.String(), "Int:42") {
		t.Errorf("expected decoded output to mention Int:42, got %s", decodeOut.String())
	}
}

func TestSTFDecodeRejectsInvalidBase64(t *testing.T) {
	decodeCmd := newSTFDecodeCmd()
	decodeCmd.SetArgs([]string{"not-base64!!"})
	if err := decodeCmd.Execute(); err == nil {
		t.Error("expected an error for invalid base64 input")
	}
}

func TestSTFCmdRegistersSubcommands(t *testing.T) {
	cmd := newSTFCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	if !names["encode"] || !names["decode"] {
		t.Errorf("expected encode and decode subcommands, got %v", names)
	}
}
