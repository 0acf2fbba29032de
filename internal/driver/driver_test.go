package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tao/internal/diag"
	"tao/internal/hirfile"
	"tao/internal/mono"
	"tao/internal/testkit"
)

const swapFixture = "testdata/swap.yaml"

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// reencode writes the swap fixture into dir with the codec name's extension
// selects.
func reencode(t *testing.T, dir, name string) string {
	t.Helper()
	raw, err := os.ReadFile(swapFixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc, err := hirfile.Decode(bytes.NewReader(raw), hirfile.CodecYAML)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	path := filepath.Join(dir, name)
	codec, err := hirfile.CodecFor(path)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	var buf bytes.Buffer
	if err := hirfile.Encode(&buf, doc, codec); err != nil {
		t.Fatalf("encode %s: %v", codec, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestLowerFile(t *testing.T) {
	res, err := LowerFile(context.Background(), swapFixture, Options{})
	if err != nil {
		t.Fatalf("lower: %v (diagnostics: %+v)", err, res.Bag.Items())
	}
	if res.Program == nil || res.Cached {
		t.Fatalf("fresh run must carry a program")
	}
	if got := len(res.Program.Globals); got != 2 {
		t.Fatalf("globals: got=%d want=2", got)
	}
	for _, want := range []string{"entry main", "def swap<"} {
		if !strings.Contains(res.Dump, want) {
			t.Fatalf("dump missing %q:\n%s", want, res.Dump)
		}
	}
	if len(res.Timing.Phases) != 4 {
		t.Fatalf("phases: got=%+v", res.Timing.Phases)
	}
}

func TestLowerFileCodecsAgree(t *testing.T) {
	dir := t.TempDir()
	want, err := LowerFile(context.Background(), swapFixture, Options{})
	if err != nil {
		t.Fatalf("lower yaml: %v", err)
	}
	for _, name := range []string{"swap.toml", "swap.msgpack"} {
		res, err := LowerFile(context.Background(), reencode(t, dir, name), Options{})
		if err != nil {
			t.Fatalf("lower %s: %v (diagnostics: %+v)", name, err, res.Bag.Items())
		}
		if res.Dump != want.Dump {
			t.Fatalf("%s: dump differs:\n--- yaml\n%s\n--- %s\n%s", name, want.Dump, name, res.Dump)
		}
	}
}

func TestLowerFileCache(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	opts := Options{Cache: cache}
	first, err := LowerFile(context.Background(), swapFixture, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Cached {
		t.Fatalf("first run cannot be a cache hit")
	}
	second, err := LowerFile(context.Background(), swapFixture, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Cached || second.Program != nil {
		t.Fatalf("second run: cached=%v program=%v", second.Cached, second.Program != nil)
	}
	if second.Dump != first.Dump {
		t.Fatalf("cached dump differs")
	}
	if second.RunID == first.RunID {
		t.Fatalf("each run needs its own id")
	}

	other, err := LowerFile(context.Background(), swapFixture, Options{Cache: cache, Entry: "main", Dump: opts.Dump})
	if err != nil {
		t.Fatalf("explicit entry: %v", err)
	}
	if other.Cached {
		t.Fatalf("an explicit entry changes the key")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	third, err := LowerFile(context.Background(), swapFixture, opts)
	if err != nil || third.Cached {
		t.Fatalf("after DropAll: cached=%v err=%v", third.Cached, err)
	}
}

func TestLowerFileEntryErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "noentry.yaml", `
format: "1.0.0"
defs:
  - name: id
    generics: [a]
    body: {kind: func, type: a -> a, param: {kind: wildcard, name: x, type: a}, body: {kind: local, name: x, type: a}}
`)
	res, err := LowerFile(context.Background(), path, Options{})
	if !errors.Is(err, mono.ErrEntryNotFound) {
		t.Fatalf("got=%v want ErrEntryNotFound", err)
	}
	if !hasCode(res.Bag, diag.MonoEntryNotFound) {
		t.Fatalf("want %s, got %+v", diag.MonoEntryNotFound.ID(), res.Bag.Items())
	}

	res, err = LowerFile(context.Background(), path, Options{Entry: "id"})
	if !errors.Is(err, mono.ErrGenericEntry) {
		t.Fatalf("got=%v want ErrGenericEntry", err)
	}
	if !hasCode(res.Bag, diag.MonoGenericEntry) {
		t.Fatalf("want %s, got %+v", diag.MonoGenericEntry.ID(), res.Bag.Items())
	}
}

func TestLowerFileRejectsFieldOfNonRecord(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "bad.yaml", `
format: "1.0.0"
defs:
  - name: main
    body:
      kind: access
      type: Num
      name: x
      items: [{kind: literal, value: {num: 1}}]
`)
	res, err := LowerFile(context.Background(), path, Options{})
	if !errors.Is(err, hirfile.ErrInvalidDocument) || errors.Is(err, ErrInternal) {
		t.Fatalf("got=%v want ErrInvalidDocument", err)
	}
	if !hasCode(res.Bag, diag.HIRBadType) {
		t.Fatalf("want %s, got %+v", diag.HIRBadType.ID(), res.Bag.Items())
	}
}

func TestLowerProgramContractViolation(t *testing.T) {
	b := testkit.NewBuilder()
	b.Def("main", nil, b.Access(b.NumLit(1), "x", testkit.Num()))
	out, err := lowerProgram(context.Background(), b.Prog, mono.Options{Entry: "main"})
	if !errors.Is(err, ErrInternal) || out != nil {
		t.Fatalf("got=(%v, %v) want ErrInternal", out, err)
	}
	var ce *mono.ContractError
	if !errors.As(err, &ce) || ce.Def != "main" {
		t.Fatalf("want a ContractError in main, got %v", err)
	}
}

func TestLowerFileSingleVariantPattern(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "wrap.yaml", `
format: "1.0.0"
entry: main
data:
  - name: Wrap
    variants: [{name: Wrap, type: Num}]
defs:
  - name: main
    body:
      kind: match
      type: Wrap
      items: [{kind: construct, type: Wrap, variant: Wrap, items: [{kind: literal, value: {num: 7}}]}]
      arms:
        - pattern: {kind: construct, name: w, data: Wrap, variant: Wrap, items: [{kind: wildcard}]}
          body: {kind: local, name: w, type: Wrap}
`)
	res, err := LowerFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("lower: %v (diagnostics: %+v)", err, res.Bag.Items())
	}

	twice := writeDoc(t, t.TempDir(), "twice.yaml", `
format: "1.0.0"
entry: main
data:
  - name: Wrap
    variants: [{name: Wrap, type: Num}]
defs:
  - name: main
    body:
      kind: match
      type: Num
      items: [{kind: construct, type: Wrap, variant: Wrap, items: [{kind: literal, value: {num: 7}}]}]
      arms:
        - pattern: {kind: construct, name: w, data: Wrap, variant: Wrap, items: [{kind: wildcard, name: n}]}
          body: {kind: local, name: n, type: Num}
`)
	res, err = LowerFile(context.Background(), twice, Options{})
	if errors.Is(err, ErrInternal) || !hasCode(res.Bag, diag.HIRDoubleBinding) {
		t.Fatalf("want %s, got err=%v diagnostics=%+v", diag.HIRDoubleBinding.ID(), err, res.Bag.Items())
	}
}

func TestLowerFileTimings(t *testing.T) {
	res, err := LowerFile(context.Background(), swapFixture, Options{Timings: true})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if !hasCode(res.Bag, diag.ObsTimings) {
		t.Fatalf("want a timings diagnostic, got %+v", res.Bag.Items())
	}
	if res.Bag.HasErrors() {
		t.Fatalf("timings are informational")
	}
}

func TestLowerFiles(t *testing.T) {
	dir := t.TempDir()
	broken := writeDoc(t, dir, "broken.yaml", "format: \"1.0.0\"\ndefs: [{name: main, body: {kind: lambda, type: Num}}]\n")
	paths := []string{swapFixture, broken, reencode(t, dir, "swap.toml")}

	var (
		mu     sync.Mutex
		events = make(map[string][]Status)
	)
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events[ev.File] = append(events[ev.File], ev.Status)
	})
	results, err := LowerFiles(context.Background(), paths, Options{Jobs: 2, Sink: sink})
	if !errors.Is(err, hirfile.ErrInvalidDocument) {
		t.Fatalf("got=%v want the broken file's error", err)
	}
	if len(results) != 3 {
		t.Fatalf("results: got=%d want=3", len(results))
	}
	for i, res := range results {
		if res == nil || res.Path != paths[i] {
			t.Fatalf("result %d out of order: %+v", i, res)
		}
	}
	if results[0].Dump != results[2].Dump || results[0].Dump == "" {
		t.Fatalf("healthy files must lower despite the broken one")
	}
	if !hasCode(results[1].Bag, diag.HIRUnknownNode) {
		t.Fatalf("broken file: got %+v", results[1].Bag.Items())
	}

	mu.Lock()
	defer mu.Unlock()
	for _, p := range paths {
		got := events[p]
		if len(got) < 2 || got[0] != StatusQueued {
			t.Fatalf("%s: events %v must start queued", p, got)
		}
		last := got[len(got)-1]
		want := StatusDone
		if p == broken {
			want = StatusError
		}
		if last != want {
			t.Fatalf("%s: last status got=%s want=%s", p, last, want)
		}
	}
}

func TestLowerFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LowerFiles(ctx, []string{swapFixture}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got=%v want context.Canceled", err)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "prog.yaml", "format: \"1.0.0\"\n")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changed := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{path}, func(paths []string) error {
			changed <- paths
			return errors.New("stop")
		})
	}()

	// Keep touching the file until the watcher reports it; the watch may
	// not be registered yet on the first write.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case got := <-changed:
			if len(got) != 1 || got[0] != path {
				t.Fatalf("changed: got=%v want=[%s]", got, path)
			}
			if err := <-done; err == nil || err.Error() != "stop" {
				t.Fatalf("Watch must return fn's error, got %v", err)
			}
			return
		case <-tick.C:
			writeDoc(t, dir, "prog.yaml", "format: \"1.0.0\"\nentry: main\n")
		case <-ctx.Done():
			t.Fatalf("no change reported")
		}
	}
}

func TestLowerFileUses(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	if _, err := LowerFile(context.Background(), swapFixture, Options{Cache: cache}); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	res, err := LowerFile(context.Background(), swapFixture, Options{Cache: cache, Uses: true})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if res.Cached || res.Uses == nil {
		t.Fatalf("a use listing needs a fresh run: cached=%v uses=%v", res.Cached, res.Uses)
	}
	entries := res.Uses.Sorted()
	if len(entries) != 1 {
		t.Fatalf("entries: got=%d want=1 (only swap is referenced)", len(entries))
	}
	sites := entries[0].UseSites
	if len(sites) != 1 || res.Program.Name(sites[0].Caller) != "main" {
		t.Fatalf("use sites: got=%+v", sites)
	}
	if name := res.Program.Name(entries[0].Def); !strings.HasPrefix(name, "swap<") {
		t.Fatalf("instance name: got=%q", name)
	}
}
