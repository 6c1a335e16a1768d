package ollama

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ollamatray-io/ollamatray/internal/service"
)

type fakeRunner struct {
	result service.Result
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (service.Result, error) {
	return f.result, f.err
}

const header = "NAME                ID              SIZE      MODIFIED"

func TestParseListSkipsMalformedLines(t *testing.T) {
	out := header + "\n" +
		"llama3 abc 4.7 GB extra\n" +
		"x y\n"

	mdls, err := ParseList(out)
	if err != nil {
		t.Fatalf("ParseList() error = %v", err)
	}
	if len(mdls) != 1 {
		t.Fatalf("ParseList() returned %d models, want 1", len(mdls))
	}
	if mdls[0].Name != "llama3" {
		t.Errorf("Name = %q, want %q", mdls[0].Name, "llama3")
	}
	if mdls[0].Size != "4.7 GB" {
		t.Errorf("Size = %q, want %q", mdls[0].Size, "4.7 GB")
	}
}

func TestParseListHeaderOnly(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{name: "header only", out: header},
		{name: "empty", out: ""},
		{name: "whitespace", out: "  \n  "},
		{name: "header and malformed rows", out: header + "\nx y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mdls, err := ParseList(tt.out)
			if !errors.Is(err, ErrNoModels) {
				t.Errorf("ParseList() error = %v, want ErrNoModels", err)
			}
			if mdls != nil {
				t.Errorf("ParseList() = %v, want nil", mdls)
			}
		})
	}
}

func TestParseListSortsCaseInsensitive(t *testing.T) {
	out := header + "\n" +
		"Zeta   id1 1.1 GB mod\n" +
		"alpha  id2 2.2 GB mod\n" +
		"Mid    id3 3.3 GB mod\n"

	mdls, err := ParseList(out)
	if err != nil {
		t.Fatalf("ParseList() error = %v", err)
	}

	got := make([]string, len(mdls))
	for i, m := range mdls {
		got[i] = m.Name
	}
	want := []string{"alpha", "Mid", "Zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestParseListShortSizeColumn(t *testing.T) {
	// A row with exactly 3 fields keeps the bare size value.
	out := header + "\nsmallmodel id 500MB\n"

	mdls, err := ParseList(out)
	if err != nil {
		t.Fatalf("ParseList() error = %v", err)
	}
	if mdls[0].Size != "500MB" {
		t.Errorf("Size = %q, want %q", mdls[0].Size, "500MB")
	}
}

func TestListCommandFailure(t *testing.T) {
	runner := &fakeRunner{result: service.Result{ExitCode: 1, Stderr: "Error: could not connect to ollama app\n"}}
	l := NewLister(runner)

	_, err := l.List(context.Background())
	if err == nil {
		t.Fatal("List() error = nil, want diagnostic")
	}
	if !strings.Contains(err.Error(), "could not connect to ollama app") {
		t.Errorf("error %q does not carry the command diagnostic", err)
	}
}

func TestListInvocationFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exec: \"ollama\": executable file not found in $PATH")}
	l := NewLister(runner)

	_, err := l.List(context.Background())
	if err == nil {
		t.Fatal("List() error = nil, want launch error")
	}
}
