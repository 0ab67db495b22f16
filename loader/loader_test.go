package loader_test

import (
	"strings"
	"testing"

	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/loader"
	"github.com/openyin/yincore/schema"
)

// Minimal module (spec §8 scenario 1).
func TestLoadModuleMinimal(t *testing.T) {
	src := `<module name="m" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:x"/>
		<prefix value="m"/>
	</module>`

	ctx := context.New()
	m, err := loader.LoadModule(ctx, strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Namespace != "urn:x" {
		t.Fatalf("expected namespace urn:x, got %q", m.Namespace)
	}
	if m.Prefix == nil || *m.Prefix != "m" {
		t.Fatalf("expected prefix m, got %v", m.Prefix)
	}
	if len(m.Children()) != 0 {
		t.Fatalf("expected no children, got %d", len(m.Children()))
	}
}

func TestLoadModuleMissingNamespaceIsFatal(t *testing.T) {
	src := `<module name="m" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<prefix value="m"/>
	</module>`
	ctx := context.New()
	if _, err := loader.LoadModule(ctx, strings.NewReader(src)); err == nil {
		t.Fatalf("expected error for missing namespace")
	}
}

// Cross-module identity (spec §8 scenario 4): module A defines identity
// base; module B imports A with prefix a and declares identity x with
// base a:base.
func TestCrossModuleIdentity(t *testing.T) {
	srcA := `<module name="a" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:a"/>
		<prefix value="a"/>
		<identity name="base"/>
	</module>`
	srcB := `<module name="b" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:b"/>
		<prefix value="b"/>
		<import module="a"><prefix value="a"/></import>
		<identity name="x"><base name="a:base"/></identity>
	</module>`

	ctx := context.New()
	modA, err := loader.LoadModule(ctx, strings.NewReader(srcA))
	if err != nil {
		t.Fatalf("load A: %v", err)
	}
	modB, err := loader.LoadModule(ctx, strings.NewReader(srcB))
	if err != nil {
		t.Fatalf("load B: %v", err)
	}

	if len(modA.Identities) != 1 || len(modB.Identities) != 1 {
		t.Fatalf("expected one identity per module")
	}
	base := modA.Identities[0]
	x := modB.Identities[0]

	if x.Base != base {
		t.Fatalf("x.Base does not point at A's base identity")
	}
	found := false
	for _, d := range base.Derived {
		if d == x {
			found = true
		}
	}
	if !found {
		t.Fatalf("base.Derived does not contain x")
	}
}

// Grouping via uses with prefix (spec §8 scenario 5): module B uses a:g
// where A exports grouping g.
func TestGroupingViaUsesWithPrefix(t *testing.T) {
	srcA := `<module name="a2" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:a2"/>
		<prefix value="a2"/>
		<grouping name="g">
			<leaf name="x"><type name="string"/></leaf>
		</grouping>
	</module>`
	srcB := `<module name="b2" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:b2"/>
		<prefix value="b2"/>
		<import module="a2"><prefix value="a2"/></import>
		<uses name="a2:g"/>
	</module>`

	ctx := context.New()
	modA, err := loader.LoadModule(ctx, strings.NewReader(srcA))
	if err != nil {
		t.Fatalf("load A: %v", err)
	}
	modB, err := loader.LoadModule(ctx, strings.NewReader(srcB))
	if err != nil {
		t.Fatalf("load B: %v", err)
	}

	aChildren := modA.Children()
	if len(aChildren) != 1 || aChildren[0].NodeType != schema.Grouping {
		t.Fatalf("expected A to have one grouping child")
	}
	grouping := aChildren[0]

	bChildren := modB.Children()
	if len(bChildren) != 1 || bChildren[0].NodeType != schema.Uses {
		t.Fatalf("expected B to have one uses child")
	}
	if bChildren[0].Grouping != grouping {
		t.Fatalf("uses node's Grouping does not point at A's grouping")
	}
}

// Duplicate module (spec §8 scenario 6): loading the same (name,
// revision) twice into one context fails on the second load and leaves
// the first module intact.
func TestDuplicateModuleRejected(t *testing.T) {
	src := `<module name="m" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:x"/>
		<prefix value="m"/>
	</module>`

	ctx := context.New()
	first, err := loader.LoadModule(ctx, strings.NewReader(src))
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	_, err = loader.LoadModule(ctx, strings.NewReader(src))
	if err == nil {
		t.Fatalf("expected second load to fail")
	}
	if ye, ok := err.(*yerr.Error); !ok || ye.Kind() != yerr.EValid {
		t.Fatalf("expected kind %s, got %v", yerr.EValid, err)
	}

	got := ctx.GetModule("m", "")
	if got != first {
		t.Fatalf("expected first module to remain registered")
	}
}

// Submodule belongs-to validation (SPEC_FULL.md §D supplemented
// feature): a submodule naming a different owning module is rejected.
func TestLoadSubmoduleBelongsToMismatch(t *testing.T) {
	srcOwner := `<module name="m" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:x"/>
		<prefix value="m"/>
	</module>`
	srcSub := `<submodule name="s" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<belongs-to module="other"><prefix value="m"/></belongs-to>
	</submodule>`

	ctx := context.New()
	owner, err := loader.LoadModule(ctx, strings.NewReader(srcOwner))
	if err != nil {
		t.Fatalf("load owner: %v", err)
	}

	_, err = loader.LoadSubmodule(ctx, owner, strings.NewReader(srcSub))
	if err == nil {
		t.Fatalf("expected belongs-to mismatch error")
	}
}

func TestLoadSubmoduleSucceeds(t *testing.T) {
	srcOwner := `<module name="m" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:x"/>
		<prefix value="m"/>
	</module>`
	srcSub := `<submodule name="s" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<belongs-to module="m"><prefix value="m"/></belongs-to>
		<leaf name="y"><type name="string"/></leaf>
	</submodule>`

	ctx := context.New()
	owner, err := loader.LoadModule(ctx, strings.NewReader(srcOwner))
	if err != nil {
		t.Fatalf("load owner: %v", err)
	}

	sub, err := loader.LoadSubmodule(ctx, owner, strings.NewReader(srcSub))
	if err != nil {
		t.Fatalf("load submodule: %v", err)
	}
	if sub.Namespace() != owner.Namespace {
		t.Fatalf("submodule namespace should delegate to owner")
	}
	if len(sub.Children()) != 1 {
		t.Fatalf("expected one child on submodule")
	}
	if owner.Submodules["s"] != sub {
		t.Fatalf("expected owner.Submodules to register the submodule")
	}
}

// A submodule redeclares its own imports independently of its owning
// module (spec.md §3's "same shape as Module" covers imports, not just
// data-defs): a prefix the submodule itself imports must resolve
// against the submodule's own import table, not fail or fall through to
// the owner's (empty, in this case) import list.
func TestLoadSubmoduleOwnImportResolvesIdentityBase(t *testing.T) {
	srcA := `<module name="a3" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:a3"/>
		<prefix value="a3"/>
		<identity name="base"/>
	</module>`
	srcOwner := `<module name="m3" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<namespace uri="urn:m3"/>
		<prefix value="m3"/>
	</module>`
	srcSub := `<submodule name="s3" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<belongs-to module="m3"><prefix value="m3"/></belongs-to>
		<import module="a3"><prefix value="a3"/></import>
		<identity name="x"><base name="a3:base"/></identity>
	</submodule>`

	ctx := context.New()
	modA, err := loader.LoadModule(ctx, strings.NewReader(srcA))
	if err != nil {
		t.Fatalf("load a3: %v", err)
	}
	owner, err := loader.LoadModule(ctx, strings.NewReader(srcOwner))
	if err != nil {
		t.Fatalf("load owner: %v", err)
	}

	sub, err := loader.LoadSubmodule(ctx, owner, strings.NewReader(srcSub))
	if err != nil {
		t.Fatalf("load submodule: %v", err)
	}

	if len(sub.Imports) != 1 || sub.Imports[0].Module != modA {
		t.Fatalf("expected submodule to carry its own import of a3")
	}
	if len(owner.Identities) != 0 {
		t.Fatalf("owning module should not have gained an identity")
	}
	if len(sub.Identities) != 1 {
		t.Fatalf("expected one identity on submodule")
	}
	if sub.Identities[0].Base != modA.Identities[0] {
		t.Fatalf("x.Base does not point at a3's base identity via submodule's own import")
	}
}
