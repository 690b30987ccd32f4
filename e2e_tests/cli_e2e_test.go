// End-to-end tests for the txprocessor binary. They exec a prebuilt binary,
// so they are skipped unless TXPROCESSOR_BIN points at one:
//
//	go build -o /tmp/txprocessor ./cmd/txprocessor
//	TXPROCESSOR_BIN=/tmp/txprocessor go test ./e2e_tests
package e2etests

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func binaryPath(t *testing.T) string {
	t.Helper()

	bin := os.Getenv("TXPROCESSOR_BIN")
	if bin == "" {
		t.Skip("TXPROCESSOR_BIN not set")
	}

	return bin
}

func writeBatch(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "transactions.csv")
	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write batch: %v", err)
	}

	return path
}

func runProcessor(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(binaryPath(t), args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("run %v: %v", args, err)
		}

		return outBuf.String(), errBuf.String(), exitErr.ExitCode()
	}

	return outBuf.String(), errBuf.String(), 0
}

func TestCLI_ProcessesBatch(t *testing.T) {
	batch := writeBatch(t, "type,client,tx,amount\n"+
		"deposit,1,1,1.0\n"+
		"dispute,1,1,\n"+
		"chargeback,1,1,\n")

	stdout, _, code := runProcessor(t, batch)
	if code != 0 {
		t.Fatalf("exit code: want 0, got %d", code)
	}

	want := "client,available,held,total,locked\n" +
		"1,0.0000,0.0000,0.0000,true\n"
	if stdout != want {
		t.Fatalf("output mismatch:\nwant:\n%s\ngot:\n%s", want, stdout)
	}
}

func TestCLI_WrongArgCount(t *testing.T) {
	_, stderr, code := runProcessor(t)
	if code == 0 {
		t.Fatalf("want non-zero exit for missing argument")
	}
	if stderr == "" {
		t.Fatalf("want usage text on stderr")
	}
}

func TestCLI_MissingInputFile(t *testing.T) {
	_, _, code := runProcessor(t, filepath.Join(t.TempDir(), "does-not-exist.csv"))
	if code == 0 {
		t.Fatalf("want non-zero exit for unreadable input")
	}
}

func TestCLI_MalformedBatchAborts(t *testing.T) {
	batch := writeBatch(t, "type,client,tx,amount\n"+
		"deposit,1,1,1.0\n"+
		"teleport,1,2,1.0\n")

	_, _, code := runProcessor(t, batch)
	if code == 0 {
		t.Fatalf("want non-zero exit for malformed record")
	}
}
