package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetAccessToken_Stubbed(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte("  eyJ.token.xyz \n"), nil
	}
	var out bytes.Buffer
	got, err := GetAccessToken(&out)
	if err != nil || got != "eyJ.token.xyz" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if !strings.Contains(out.String(), "Paste access token") {
		t.Fatalf("prompt missing in output: %q", out.String())
	}
}

func TestGetAccessToken_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetAccessToken(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}
