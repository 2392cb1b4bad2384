// modules_test.go
package zr

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func runFile(t *testing.T, path string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	ip := New(NewFileProvider(), &buf)
	_, err := ip.RunFile(path)
	return buf.String(), err
}

func wantModuleError(t *testing.T, err error, substr string) *ModuleError {
	t.Helper()
	if err == nil {
		t.Fatal("expected module error, got none")
	}
	me, ok := err.(*ModuleError)
	if !ok {
		t.Fatalf("want *ModuleError, got %T: %v", err, err)
	}
	if !strings.Contains(me.Msg, substr) {
		t.Fatalf("error %q does not mention %q", me.Msg, substr)
	}
	return me
}

func Test_Modules_IncludesRunBeforeOwnStatements(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "util.zr", `print "util";`)
	main := writeScript(t, dir, "main.zr", `
print "main";
loadin "util";
`)
	out, err := runFile(t, main)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "util\nmain\n" {
		t.Fatalf("output %q, want util before main", out)
	}
}

func Test_Modules_AllIncludesBeforeAnyStatement(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.zr", `print "a";`)
	writeScript(t, dir, "b.zr", `print "b";`)
	main := writeScript(t, dir, "main.zr", `
loadin "a";
print "between";
loadin "b";
print "after";
`)
	out, err := runFile(t, main)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "a\nb\nbetween\nafter\n" {
		t.Fatalf("output %q", out)
	}
}

func Test_Modules_SymbolsSharedWithIncluder(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "defs.zr", `let answer = 42;`)
	main := writeScript(t, dir, "main.zr", `
loadin "defs";
print answer;
`)
	out, err := runFile(t, main)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "42\n" {
		t.Fatalf("output %q", out)
	}
}

func Test_Modules_DefaultExtensionAppended(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "util.zr", `print 1;`)
	main := writeScript(t, dir, "main.zr", `loadin "util";`)
	if out, err := runFile(t, main); err != nil || out != "1\n" {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func Test_Modules_ExplicitExtension(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "util.zr", `print 1;`)
	main := writeScript(t, dir, "main.zr", `loadin "util.zr";`)
	if out, err := runFile(t, main); err != nil || out != "1\n" {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func Test_Modules_FilesSubdirOfMainScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, filepath.Join("files", "helper.zr"), `print "helper";`)
	main := writeScript(t, dir, "main.zr", `loadin "helper";`)
	out, err := runFile(t, main)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "helper\n" {
		t.Fatalf("output %q", out)
	}
}

// A nested include resolves against the including file's own directory, and
// the files/ rule stays anchored at the entry script's directory.
func Test_Modules_NestedIncludeResolvesFromIncluderDir(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, filepath.Join("sub", "inner.zr"), `print "inner";`)
	writeScript(t, dir, filepath.Join("sub", "outer.zr"), `loadin "inner";`)
	main := writeScript(t, dir, "main.zr", `loadin "sub/outer.zr";`)
	out, err := runFile(t, main)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "inner\n" {
		t.Fatalf("output %q", out)
	}
}

func Test_Modules_AbsolutePath(t *testing.T) {
	libDir := t.TempDir()
	lib := writeScript(t, libDir, "lib.zr", `print "lib";`)
	dir := t.TempDir()
	main := writeScript(t, dir, "main.zr", "loadin \""+lib+"\";")
	out, err := runFile(t, main)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "lib\n" {
		t.Fatalf("output %q", out)
	}
}

func Test_Modules_SearchPathFromEnv(t *testing.T) {
	libDir := t.TempDir()
	writeScript(t, libDir, "shared.zr", `print "shared";`)
	t.Setenv(PathEnv, libDir)

	dir := t.TempDir()
	main := writeScript(t, dir, "main.zr", `loadin "shared";`)
	out, err := runFile(t, main)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "shared\n" {
		t.Fatalf("output %q", out)
	}
}

func Test_Modules_ExtraRootsPrecedeEnv(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeScript(t, rootA, "m.zr", `print "a";`)
	writeScript(t, rootB, "m.zr", `print "b";`)
	t.Setenv(PathEnv, rootB)

	dir := t.TempDir()
	main := writeScript(t, dir, "main.zr", `loadin "m";`)
	var buf bytes.Buffer
	ip := New(NewFileProvider(rootA), &buf)
	if _, err := ip.RunFile(main); err != nil {
		t.Fatalf("run: %v", err)
	}
	if buf.String() != "a\n" {
		t.Fatalf("output %q, want the manifest root to win", buf.String())
	}
}

func Test_Modules_NotFound(t *testing.T) {
	dir := t.TempDir()
	main := writeScript(t, dir, "main.zr", `loadin "missing";`)
	_, err := runFile(t, main)
	me := wantModuleError(t, err, "module not found")
	if me.Module != "missing" {
		t.Fatalf("module %q, want missing", me.Module)
	}
}

func Test_Modules_DuplicateLoadFatal(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "util.zr", `print 1;`)
	main := writeScript(t, dir, "main.zr", `
loadin "util";
loadin "util";
`)
	out, err := runFile(t, main)
	wantModuleError(t, err, "already loaded or circular dependency")
	if out != "1\n" {
		t.Fatalf("output %q, want the first load's output only", out)
	}
}

func Test_Modules_CircularLoadFatal(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.zr", `loadin "b";`)
	writeScript(t, dir, "b.zr", `loadin "a";`)
	main := filepath.Join(dir, "a.zr")
	_, err := runFile(t, main)
	me := wantModuleError(t, err, "already loaded or circular dependency")
	if !strings.Contains(me.Msg, "b.zr -> a.zr") {
		t.Fatalf("error %q does not show the cycle chain", me.Msg)
	}
}

func Test_Modules_SelfLoadFatal(t *testing.T) {
	dir := t.TempDir()
	main := writeScript(t, dir, "self.zr", `loadin "self";`)
	_, err := runFile(t, main)
	wantModuleError(t, err, "already loaded or circular dependency")
}

func Test_Modules_EntryScriptUnreadable(t *testing.T) {
	_, err := runFile(t, filepath.Join(t.TempDir(), "nope.zr"))
	wantModuleError(t, err, "cannot read module file")
}

func Test_Modules_NilProviderDisablesLoadin(t *testing.T) {
	var buf bytes.Buffer
	ip := New(nil, &buf)
	_, err := ip.RunSource(`loadin "util";`, "<test>", "")
	wantModuleError(t, err, "no source provider configured")
}

func Test_Modules_RunSourceResolvesAgainstBaseDir(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "util.zr", `print "ok";`)
	var buf bytes.Buffer
	ip := New(NewFileProvider(), &buf)
	if _, err := ip.RunSource(`loadin "util";`, "<repl>", dir); err != nil {
		t.Fatalf("run: %v", err)
	}
	if buf.String() != "ok\n" {
		t.Fatalf("output %q", buf.String())
	}
}

func Test_Modules_ParseErrorNamesTheModule(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.zr", `let = 1;`)
	main := writeScript(t, dir, "main.zr", `loadin "bad";`)
	_, err := runFile(t, main)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad.zr") {
		t.Fatalf("error %q does not name bad.zr", err.Error())
	}
}
