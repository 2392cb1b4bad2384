// modules.go — loadin resolution and the module registry.
//
// A `loadin "name"` directive includes another ZR source file. Processing a
// file is a two-pass walk over its top-level statements:
//
//  1. Every loadin directive resolves (through the injected SourceProvider),
//     registers its canonical identity, and runs the included module to
//     completion — nested includes and all — before control returns.
//  2. The remaining statements are relocated into a synthetic block that
//     evaluates as a unit after every include has been handled.
//
// So all includes in a file resolve before any of that file's own statements
// execute. The registry is a flat set of canonical identities shared by the
// whole run; seeing an identity twice — whether as a plain duplicate or as a
// cycle — is fatal.
//
// Resolution order for a module name: the including file's directory, then
// the `files/` subdirectory under the entry script's directory, then the
// name as an absolute path, then each configured search root (manifest
// module_paths and the ZRPATH environment variable). A name without an
// extension first tries name + ".zr".
package zr

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultModuleExt is appended to extension-less loadin names.
const DefaultModuleExt = ".zr"

// PathEnv names the environment variable holding extra module search roots,
// in list form (':'-separated on Unix).
const PathEnv = "ZRPATH"

// SourceProvider resolves logical module names to canonical identities and
// loads their text. The interpreter core never touches the filesystem
// directly; tests may substitute an in-memory provider.
type SourceProvider interface {
	// Resolve maps a logical module name, relative to baseDir and mainDir,
	// to a canonical absolute identity, or fails with not-found.
	Resolve(name, baseDir, mainDir string) (string, error)
	// Load returns the full source text for a canonical identity.
	Load(canonical string) (string, error)
}

// FileProvider is the standard filesystem-backed SourceProvider.
type FileProvider struct {
	// SearchPath holds extra roots consulted after the spec-mandated ones;
	// populated from the project manifest and ZRPATH.
	SearchPath []string
}

// NewFileProvider builds a provider whose search path is extraRoots followed
// by the roots named in the ZRPATH environment variable.
func NewFileProvider(extraRoots ...string) *FileProvider {
	p := &FileProvider{SearchPath: append([]string(nil), extraRoots...)}
	for _, root := range filepath.SplitList(os.Getenv(PathEnv)) {
		if root != "" {
			p.SearchPath = append(p.SearchPath, root)
		}
	}
	return p
}

// Resolve implements SourceProvider.
func (p *FileProvider) Resolve(name, baseDir, mainDir string) (string, error) {
	try := func(base string) (string, bool) {
		cands := []string{filepath.Join(base, name)}
		if filepath.Ext(name) == "" {
			cands = []string{filepath.Join(base, name) + DefaultModuleExt, filepath.Join(base, name)}
		}
		for _, c := range cands {
			if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
				abs, err := filepath.Abs(c)
				if err != nil {
					continue
				}
				return filepath.Clean(abs), true
			}
		}
		return "", false
	}

	if filepath.IsAbs(name) {
		if canon, ok := try(""); ok {
			return canon, nil
		}
		return "", &ModuleError{Module: name, Msg: "module not found"}
	}

	roots := make([]string, 0, 2+len(p.SearchPath))
	if baseDir != "" {
		roots = append(roots, baseDir)
	}
	if mainDir != "" {
		roots = append(roots, filepath.Join(mainDir, "files"))
	}
	roots = append(roots, p.SearchPath...)

	for _, root := range roots {
		if canon, ok := try(root); ok {
			return canon, nil
		}
	}
	return "", &ModuleError{Module: name, Msg: "module not found"}
}

// Load implements SourceProvider.
func (p *FileProvider) Load(canonical string) (string, error) {
	b, err := os.ReadFile(canonical)
	if err != nil {
		return "", &ModuleError{Module: canonical, Msg: "cannot read module file"}
	}
	return string(b), nil
}

// RunFile is the top-level entry point for `zr run`: it loads the entry
// script, registers it, and processes it. The entry script's directory
// anchors the `files/` resolution rule for the whole run.
func (ip *Interp) RunFile(path string) (Value, error) {
	if ip.provider == nil {
		return Void, &ModuleError{Module: path, Msg: "no source provider configured"}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Void, &ModuleError{Module: path, Msg: "cannot resolve script path"}
	}
	canon := filepath.Clean(abs)
	src, err := ip.provider.Load(canon)
	if err != nil {
		return Void, err
	}
	ip.mainDir = filepath.Dir(canon)
	ip.registry[canon] = true
	return ip.Process(src, canon, ip.mainDir)
}

// RunSource processes source text under a synthetic identity (REPL, stdin).
// Relative loadin names resolve against baseDir.
func (ip *Interp) RunSource(src, identity, baseDir string) (Value, error) {
	if ip.mainDir == "" {
		ip.mainDir = baseDir
	}
	return ip.Process(src, identity, baseDir)
}

// Process parses src and evaluates it with loadin interception as described
// in the file header. identity labels diagnostics; baseDir anchors relative
// module resolution for this file's own directives.
func (ip *Interp) Process(src, identity, baseDir string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Void, WrapErrorWithName(err, displayName(identity), src)
	}
	ip.tracef(TraceInfo, "parsed %s: %d top-level statements", displayName(identity), len(prog.Stmts))

	rest := &BlockStmt{pos: prog.pos}
	for _, st := range prog.Stmts {
		ld, ok := st.(*LoadStmt)
		if !ok {
			rest.Stmts = append(rest.Stmts, st)
			continue
		}
		if err := ip.loadModule(ld, baseDir); err != nil {
			return Void, err
		}
	}

	v, err := ip.evalBlock(rest)
	if err != nil {
		return Void, WrapErrorWithName(err, displayName(identity), src)
	}
	ip.tracef(TraceInfo, "completed %s", displayName(identity))
	return v, nil
}

func (ip *Interp) loadModule(ld *LoadStmt, baseDir string) error {
	if ip.provider == nil {
		return &ModuleError{Module: ld.Name, Msg: "no source provider configured"}
	}
	canon, err := ip.provider.Resolve(ld.Name, baseDir, ip.mainDir)
	if err != nil {
		return err
	}
	if ip.registry[canon] {
		return &ModuleError{Module: ld.Name,
			Msg: "already loaded or circular dependency: " + cycleChain(ip.loadStack, canon)}
	}
	ip.registry[canon] = true

	src, err := ip.provider.Load(canon)
	if err != nil {
		return err
	}

	ip.tracef(TraceInfo, "loading module %s", canon)
	ip.loadStack = append(ip.loadStack, canon)
	_, err = ip.Process(src, canon, filepath.Dir(canon))
	ip.loadStack = ip.loadStack[:len(ip.loadStack)-1]
	return err
}

// displayName shortens canonical paths for diagnostics; synthetic
// identities like "<repl>" pass through.
func displayName(identity string) string {
	if strings.HasPrefix(identity, "<") {
		return identity
	}
	return filepath.Base(identity)
}

// cycleChain renders "a.zr -> b.zr -> a.zr" from the in-progress stack.
func cycleChain(stack []string, again string) string {
	start := 0
	for i, s := range stack {
		if s == again {
			start = i
			break
		}
	}
	chain := append(append([]string(nil), stack[start:]...), again)
	parts := make([]string, len(chain))
	for i, s := range chain {
		parts[i] = displayName(s)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts, " -> ")
}
