package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakeTranscript is what the fake CLI writes for any decodable input.
const FakeTranscript = `{"text":"hello world","language":"en","segments":[{"start":0,"end":0.5,"text":"hello"},{"start":0.5,"end":1,"text":"world"}]}`

const fakeCLIScript = `#!/bin/sh
dir=$(dirname "$0")
if [ "$1" = "--help" ]; then
  echo "usage: fake-whisper audio [options]"
  exit 0
fi
audio="$1"
echo "$@" > "$dir/args.txt"
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_dir" ]; then out="$2"; fi
  shift
done
case "$audio" in
  *corrupt*) echo "RuntimeError: failed to load audio: invalid data found" >&2; exit 1 ;;
  *silent*) exit 0 ;;
esac
if [ "$(head -c 4 "$audio")" != "RIFF" ]; then
  echo "RuntimeError: failed to load audio: invalid data found" >&2; exit 1
fi
stem=$(basename "$audio")
stem="${stem%.*}"
cat > "$out/$stem.json" <<'JSON'
` + FakeTranscript + `
JSON
`

// FakeWhisperCLI writes an executable that behaves like the whisper CLIs
// and returns its path. Audio that is not RIFF data, or whose path contains
// "corrupt", fails with exit 1; paths containing "silent" exit 0 without
// output. The last argument list
// is readable with FakeCLIArgs.
func FakeWhisperCLI(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-whisper")
	if err := os.WriteFile(path, []byte(fakeCLIScript), 0o755); err != nil { //nolint:gosec // test executable
		t.Fatalf("write fake cli: %v", err)
	}
	return path
}

// FakeCLIArgs returns the arguments of the last fake CLI transcription.
func FakeCLIArgs(t testing.TB, cliPath string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(cliPath), "args.txt"))
	if err != nil {
		t.Fatalf("read fake cli args: %v", err)
	}
	return strings.Fields(string(data))
}

const brokenCLIScript = `#!/bin/sh
dir=$(dirname "$0")
if [ "$1" = "--help" ]; then
  echo "usage: fake-whisper audio [options]"
  exit 0
fi
echo "$@" > "$dir/args.txt"
cat "$dir/stderr.txt" >&2
exit 1
`

// BrokenWhisperCLI writes an executable that answers --help but fails every
// transcription with exit 1, printing stderr. It mimics a CLI that is
// installed but cannot fetch its model weights.
func BrokenWhisperCLI(t testing.TB, stderr string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stderr.txt"), []byte(stderr+"\n"), 0o600); err != nil {
		t.Fatalf("write fake cli stderr: %v", err)
	}
	path := filepath.Join(dir, "broken-whisper")
	if err := os.WriteFile(path, []byte(brokenCLIScript), 0o755); err != nil { //nolint:gosec // test executable
		t.Fatalf("write fake cli: %v", err)
	}
	return path
}
