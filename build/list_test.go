package build_test

import (
	"strings"
	"testing"

	"github.com/openyin/yincore/build"
	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
)

func readEl(t *testing.T, src string) *yin.Element {
	t.Helper()
	el, err := yin.Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("yin.Read: %v", err)
	}
	return el
}

func newTestModule(ctx *context.Context, name string) *schema.Module {
	return &schema.Module{Name: ctx.Intern(name), Prefix: ctx.Intern(name)}
}

// List key resolution succeeds when every named key resolves to a
// distinct direct leaf child (spec §8 scenario 3).
func TestListKeyResolutionSucceeds(t *testing.T) {
	src := `<list name="entries" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<key value="id name"/>
		<leaf name="id"><type name="string"/></leaf>
		<leaf name="name"><type name="string"/></leaf>
	</list>`
	el := readEl(t, src)
	ctx := context.New()
	mod := newTestModule(ctx, "m")

	n, err := build.List(ctx, mod, nil, nil, el)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.Keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(n.Keys))
	}
	if *n.Keys[0].Name != "id" || *n.Keys[1].Name != "name" {
		t.Fatalf("unexpected key order: %s, %s", *n.Keys[0].Name, *n.Keys[1].Name)
	}
	if n.KeysSize != 2 {
		t.Fatalf("expected KeysSize 2, got %d", n.KeysSize)
	}
}

// Removing the "name" leaf child yields KEY_MISS (spec §8 scenario 3).
func TestListKeyResolutionMissingKey(t *testing.T) {
	src := `<list name="entries" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<key value="id name"/>
		<leaf name="id"><type name="string"/></leaf>
	</list>`
	el := readEl(t, src)
	ctx := context.New()
	mod := newTestModule(ctx, "m")

	_, err := build.List(ctx, mod, nil, nil, el)
	if err == nil {
		t.Fatalf("expected KEY_MISS, got success")
	}
	ye, ok := err.(*yerr.Error)
	if !ok || ye.Kind() != yerr.KeyMiss {
		t.Fatalf("expected kind %s, got %v", yerr.KeyMiss, err)
	}
}

// A config=true list with no key statement is MISSSTMT2.
func TestListRequiresKeyWhenConfigTrue(t *testing.T) {
	src := `<list name="entries" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<leaf name="id"><type name="string"/></leaf>
	</list>`
	el := readEl(t, src)
	ctx := context.New()
	mod := newTestModule(ctx, "m")

	_, err := build.List(ctx, mod, nil, nil, el)
	if err == nil {
		t.Fatalf("expected MISSSTMT2, got success")
	}
	ye, ok := err.(*yerr.Error)
	if !ok || ye.Kind() != yerr.MissStmt2 {
		t.Fatalf("expected kind %s, got %v", yerr.MissStmt2, err)
	}
}

// A duplicate key name within one <key value="..."/> is KEY_DUP.
func TestListKeyDuplicate(t *testing.T) {
	src := `<list name="entries" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<key value="id id"/>
		<leaf name="id"><type name="string"/></leaf>
	</list>`
	el := readEl(t, src)
	ctx := context.New()
	mod := newTestModule(ctx, "m")

	_, err := build.List(ctx, mod, nil, nil, el)
	if err == nil {
		t.Fatalf("expected KEY_DUP, got success")
	}
	ye, ok := err.(*yerr.Error)
	if !ok || ye.Kind() != yerr.KeyDup {
		t.Fatalf("expected kind %s, got %v", yerr.KeyDup, err)
	}
}

// A key naming a non-leaf child (a container) is KEY_NLEAF.
func TestListKeyNotLeaf(t *testing.T) {
	src := `<list name="entries" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<key value="id"/>
		<container name="id"/>
	</list>`
	el := readEl(t, src)
	ctx := context.New()
	mod := newTestModule(ctx, "m")

	_, err := build.List(ctx, mod, nil, nil, el)
	if err == nil {
		t.Fatalf("expected KEY_NLEAF, got success")
	}
	ye, ok := err.(*yerr.Error)
	if !ok || ye.Kind() != yerr.KeyNLeaf {
		t.Fatalf("expected kind %s, got %v", yerr.KeyNLeaf, err)
	}
}

// A key naming a leaf of type "empty" is KEY_TYPE.
func TestListKeyEmptyType(t *testing.T) {
	src := `<list name="entries" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<key value="flag"/>
		<leaf name="flag"><type name="empty"/></leaf>
	</list>`
	el := readEl(t, src)
	ctx := context.New()
	mod := newTestModule(ctx, "m")

	_, err := build.List(ctx, mod, nil, nil, el)
	if err == nil {
		t.Fatalf("expected KEY_TYPE, got success")
	}
	ye, ok := err.(*yerr.Error)
	if !ok || ye.Kind() != yerr.KeyType {
		t.Fatalf("expected kind %s, got %v", yerr.KeyType, err)
	}
}

// A key leaf whose own config differs from the list's is KEY_CONFIG —
// the list inherits config=true from the top-level default, while the
// key leaf explicitly overrides to config=false.
func TestListKeyConfigMismatch(t *testing.T) {
	src := `<list name="entries" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<key value="id"/>
		<leaf name="id"><config value="false"/><type name="string"/></leaf>
	</list>`
	el := readEl(t, src)
	ctx := context.New()
	mod := newTestModule(ctx, "m")

	_, err := build.List(ctx, mod, nil, nil, el)
	if err == nil {
		t.Fatalf("expected KEY_CONFIG, got success")
	}
	ye, ok := err.(*yerr.Error)
	if !ok || ye.Kind() != yerr.KeyConfig {
		t.Fatalf("expected kind %s, got %v", yerr.KeyConfig, err)
	}
}

// A second <key> statement on the same list is TOOMANY.
func TestListDuplicateKeyStatementIsTooMany(t *testing.T) {
	src := `<list name="entries" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
		<key value="id"/>
		<key value="id"/>
		<leaf name="id"><type name="string"/></leaf>
	</list>`
	el := readEl(t, src)
	ctx := context.New()
	mod := newTestModule(ctx, "m")

	_, err := build.List(ctx, mod, nil, nil, el)
	if err == nil {
		t.Fatalf("expected TOOMANY, got success")
	}
	ye, ok := err.(*yerr.Error)
	if !ok || ye.Kind() != yerr.TooMany {
		t.Fatalf("expected kind %s, got %v", yerr.TooMany, err)
	}
}
