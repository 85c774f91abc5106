package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Show(ctx context.Context) error { f.calls = append(f.calls, "show"); return nil }
func (f *fakeExec) Add(ctx context.Context) error  { f.calls = append(f.calls, "add"); return nil }
func (f *fakeExec) Delete(ctx context.Context) error {
	f.calls = append(f.calls, "delete")
	return nil
}
func (f *fakeExec) AddPhoto(ctx context.Context) error {
	f.calls = append(f.calls, "photo")
	return nil
}
func (f *fakeExec) Refresh(ctx context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}
func (f *fakeExec) Export(ctx context.Context) error {
	f.calls = append(f.calls, "export")
	return nil
}
func (f *fakeExec) Import(ctx context.Context) error {
	f.calls = append(f.calls, "import")
	return nil
}
func (f *fakeExec) Clear(ctx context.Context) error { f.calls = append(f.calls, "clear"); return nil }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"add",
		"list",
		"show",
		"refresh",
		"export",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "add", "list", "show", "refresh", "export"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}

}

func TestRunREPL_UnknownAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("bogus\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
