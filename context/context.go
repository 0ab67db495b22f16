// Package context implements the process-wide registry spec §2 names
// as the first, leaf-most dependency: the string intern pool, the
// table of loaded modules/submodules, the on-demand search path, and
// the context-bound advisory logger.
//
// A Context is not a singleton (spec §9): a process may hold several,
// and a single Context is not safe for concurrent loads (spec §5).
package context

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/openyin/yincore/internal/intern"
	"github.com/openyin/yincore/schema"
)

// moduleKey identifies a loaded module by (name, revision); a module
// with no revision statements keys on "" (spec §4.5's duplicate check).
type moduleKey struct {
	name     string
	revision string
}

// Loader fetches the YIN source for a module or submodule named `name`
// (optionally pinned to `revision`) from wherever the caller's search
// path points — network fetch, embedded bundle, or the filesystem
// loader WithSearchDirs installs by default. It is the external
// collaborator spec §6's "may trigger on-demand loading from the
// context's search directory" refers to.
type Loader interface {
	Load(name, revision string) (data []byte, err error)
}

// Context is the process-wide registry of spec §2 item 1.
type Context struct {
	pool *intern.Pool
	log  *logrus.Entry

	modules    map[moduleKey]*schema.Module
	modulesByN map[string][]*schema.Module // all revisions loaded for a name, for latest-revision lookup
	submodules map[string]*schema.Submodule

	searchDirs []string
	loader     Loader

	loadStack []string // names currently being on-demand loaded, for import-cycle detection
}

// Option configures a Context at construction time (spec A.3).
type Option func(*Context)

// WithSearchDirs sets the directories context_get_module searches, in
// order, when a referenced module has not already been loaded.
func WithSearchDirs(dirs ...string) Option {
	return func(c *Context) { c.searchDirs = append(c.searchDirs, dirs...) }
}

// WithLoader overrides the on-demand module/submodule fetch strategy.
// If unset, a Context falls back to a filesystem loader rooted at its
// search directories.
func WithLoader(l Loader) Option {
	return func(c *Context) { c.loader = l }
}

// WithLogger installs a logrus logger other than the package default.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Context) { c.log = l.WithField("component", "yincore") }
}

// WithLevel sets the advisory-logging verbosity. Per spec §9 this is a
// diagnostic knob only; it never changes load semantics.
func WithLevel(lvl logrus.Level) Option {
	return func(c *Context) {
		if c.log != nil {
			c.log.Logger.SetLevel(lvl)
		}
	}
}

// New returns an empty Context ready to load modules into.
func New(opts ...Option) *Context {
	c := &Context{
		pool:       intern.NewPool(),
		modules:    make(map[moduleKey]*schema.Module),
		modulesByN: make(map[string][]*schema.Module),
		submodules: make(map[string]*schema.Submodule),
	}
	c.log = logrus.NewEntry(logrus.StandardLogger())
	for _, opt := range opts {
		opt(c)
	}
	if c.loader == nil {
		c.loader = filesystemLoader{dirs: c.searchDirs}
	}
	return c
}

// Intern returns the canonical Symbol for s (spec §3's interning
// invariant).
func (c *Context) Intern(s string) intern.Symbol { return c.pool.Intern(s) }

// Log returns the context-bound advisory logger (spec A.2).
func (c *Context) Log() *logrus.Entry { return c.log }

// Loader returns the on-demand module/submodule fetch strategy.
func (c *Context) Loader() Loader { return c.loader }

// register adds a successfully built module to the context, after the
// caller (loader.LoadModule) has already performed the duplicate-module
// check of spec §4.5.
func (c *Context) register(m *schema.Module) {
	key := moduleKey{name: *m.Name, revision: m.LatestRevision()}
	c.modules[key] = m
	c.modulesByN[*m.Name] = append(c.modulesByN[*m.Name], m)
}

// Register is the exported form of register, used by package loader.
func (c *Context) Register(m *schema.Module) { c.register(m) }

// RegisterSubmodule adds a successfully built submodule to the
// context's submodule table, keyed by name.
func (c *Context) RegisterSubmodule(s *schema.Submodule) {
	c.submodules[*s.Name] = s
}

// GetModule looks up an already-loaded module by (name, optional
// revision); revision == "" matches the latest loaded revision for
// that name. It does not itself trigger on-demand loading — that is
// layered on by package loader's GetOrLoadModule, which is the
// context_get_module operation of spec §6.
func (c *Context) GetModule(name, revision string) *schema.Module {
	if revision != "" {
		return c.modules[moduleKey{name: name, revision: revision}]
	}
	revs := c.modulesByN[name]
	if len(revs) == 0 {
		return nil
	}
	latest := revs[0]
	for _, m := range revs[1:] {
		if m.LatestRevision() > latest.LatestRevision() {
			latest = m
		}
	}
	return latest
}

// GetSubmodule looks up an already-loaded submodule by name. Spec §6's
// context_get_submodule also takes a module parameter for interface
// symmetry with GetModule; since submodules are stored process-wide in
// this context (not per owning module) the module parameter is unused
// beyond documenting intent.
func (c *Context) GetSubmodule(owner *schema.Module, name, revision string) *schema.Submodule {
	return c.submodules[name]
}

// PushLoading records that an on-demand load of name has started, for
// the import-cycle detection loader.GetOrLoadModule performs: a module
// recursively importing a module already mid-load (directly or
// transitively) would otherwise recurse forever, since neither module is
// registered yet. Returns false if name is already on the stack.
func (c *Context) PushLoading(name string) bool {
	for _, n := range c.loadStack {
		if n == name {
			return false
		}
	}
	c.loadStack = append(c.loadStack, name)
	return true
}

// PopLoading removes the most recently pushed name, once its load has
// finished (successfully or not).
func (c *Context) PopLoading() {
	if len(c.loadStack) > 0 {
		c.loadStack = c.loadStack[:len(c.loadStack)-1]
	}
}

// HasRevision reports whether a module named name with revision rev
// (possibly "") has already been registered — used by the duplicate-
// module check of spec §4.5.
func (c *Context) HasRevision(name, revision string) (*schema.Module, bool) {
	m, ok := c.modules[moduleKey{name: name, revision: revision}]
	return m, ok
}

// filesystemLoader is the default Loader: it looks for "<name>.yin" (or
// "<name>@<revision>.yin") in each configured search directory, in
// order, matching spec §6's "may trigger on-demand loading from the
// context's search directory".
type filesystemLoader struct {
	dirs []string
}

func (f filesystemLoader) Load(name, revision string) ([]byte, error) {
	candidates := []string{name + ".yin"}
	if revision != "" {
		candidates = append([]string{name + "@" + revision + ".yin"}, candidates...)
	}
	var lastErr error
	for _, dir := range f.dirs {
		for _, file := range candidates {
			data, err := os.ReadFile(filepath.Join(dir, file))
			if err == nil {
				return data, nil
			}
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = os.ErrNotExist
	}
	return nil, lastErr
}
