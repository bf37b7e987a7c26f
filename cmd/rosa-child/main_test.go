package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/childproc"
)

func TestRunnerEcho(t *testing.T) {
	script := filepath.Join(t.TempDir(), "echo.lua")
	src := `
local n = 0
while true do
	local msg, closed = receiveMessage()
	if msg then
		sendMessage("echo " .. msg)
		n = n + 1
	elseif closed then
		break
	else
		sleep(1)
	end
end
sendMessage("count " .. n)
`
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	var in bytes.Buffer
	childproc.WriteFrame(&in, []byte("a"))
	childproc.WriteFrame(&in, []byte("bc"))
	var out bytes.Buffer
	w := bufio.NewWriter(&out)

	done := make(chan error, 1)
	go func() { done <- newRunner(&in, w, zap.NewNop()).run(script) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("script did not finish")
	}

	for _, want := range []string{"echo a", "echo bc", "count 2"} {
		got, err := childproc.ReadFrame(&out)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestRunnerScriptError(t *testing.T) {
	script := filepath.Join(t.TempDir(), "bad.lua")
	os.WriteFile(script, []byte(`error("boom")`), 0o644)
	var out bytes.Buffer
	err := newRunner(bytes.NewReader(nil), bufio.NewWriter(&out), zap.NewNop()).run(script)
	if err == nil {
		t.Fatal("error not reported")
	}
}
