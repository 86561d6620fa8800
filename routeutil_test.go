package routeutil

import (
	"errors"
	"regexp"
	"testing"

	"github.com/andreasphil/routeutil/pkg/fragment"
	"github.com/andreasphil/routeutil/pkg/router"
)

// =============================================================================
// Alias Tests
// =============================================================================

func TestAliasesMatchCoreTypes(t *testing.T) {
	// These assignments only compile when the aliases point at the
	// underlying types.
	var h Handler = func(ResolvedRoute) {}
	var coreHandler router.Handler = h
	_ = coreHandler

	var raw Raw = fragment.Param("id")
	var coreRaw fragment.Raw = raw
	_ = coreRaw

	var loc Location = NewMemoryLocation("")
	var coreLoc router.Location = loc
	_ = coreLoc
}

func TestErrInvalidRouteIsShared(t *testing.T) {
	_, err := Route("users")
	if !errors.Is(err, ErrInvalidRoute) {
		t.Errorf("Route error = %v, want ErrInvalidRoute", err)
	}
	if !errors.Is(err, fragment.ErrInvalidRoute) {
		t.Error("facade error value should be the fragment package's")
	}
}

// =============================================================================
// Pattern Tests
// =============================================================================

func TestRouteAndParam(t *testing.T) {
	re, err := Route("#/users/", Param("id"))
	if err != nil {
		t.Fatalf("Route error: %v", err)
	}

	m := re.FindStringSubmatch("#/users/42")
	if m == nil {
		t.Fatal("pattern should match #/users/42")
	}
	if got := m[re.SubexpIndex("id")]; got != "42" {
		t.Errorf("id capture = %q, want %q", got, "42")
	}

	if re.MatchString("#/users/42/edit") {
		t.Error("anchored pattern should not match a longer fragment")
	}
}

func TestMustRoutePanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRoute should panic for a route without the prefix")
		}
	}()
	MustRoute("users/", Param("id"))
}

// =============================================================================
// End-to-End
// =============================================================================

func TestRouterEndToEnd(t *testing.T) {
	loc := NewMemoryLocation("")

	userRoute := MustRoute("#/users/", Param("id"))

	var (
		home     int
		userIDs  []string
		misses   []string
		afterLog []string
	)

	r := New(loc, StartAt("#/")).
		On("#/", func(ResolvedRoute) {
			home++
		}).
		On(userRoute, func(res ResolvedRoute) {
			userIDs = append(userIDs, res.Params["id"])
		}).
		Fallback(func(res ResolvedRoute) {
			misses = append(misses, res.URL)
		}).
		AfterEach(func(res ResolvedRoute) {
			afterLog = append(afterLog, res.URL)
		})

	r.Connect()

	// StartAt kicks in because the location was empty.
	if got := loc.Fragment(); got != "#/" {
		t.Fatalf("fragment after Connect = %q, want %q", got, "#/")
	}
	if home != 1 {
		t.Errorf("home handled %d times, want 1", home)
	}

	loc.SetFragment("#/users/42")
	loc.SetFragment("#/users/7")
	loc.SetFragment("#/nope")

	if home != 1 {
		t.Errorf("home handled %d times, want 1", home)
	}
	if len(userIDs) != 2 || userIDs[0] != "42" || userIDs[1] != "7" {
		t.Errorf("user ids = %v, want [42 7]", userIDs)
	}
	if len(misses) != 1 || misses[0] != "#/nope" {
		t.Errorf("misses = %v, want [#/nope]", misses)
	}

	wantAfter := []string{"#/", "#/users/42", "#/users/7", "#/nope"}
	if len(afterLog) != len(wantAfter) {
		t.Fatalf("afterEach ran %d times, want %d", len(afterLog), len(wantAfter))
	}
	for i, want := range wantAfter {
		if afterLog[i] != want {
			t.Errorf("afterEach[%d] = %q, want %q", i, afterLog[i], want)
		}
	}

	r.Disconnect()
	loc.SetFragment("#/users/9")
	if len(userIDs) != 2 {
		t.Errorf("user ids after Disconnect = %v, want unchanged", userIDs)
	}
}

func TestRouterDefinitionSlices(t *testing.T) {
	loc := NewMemoryLocation("#/b")

	var seen []string
	defs := []Definition{"#/a", "#/b"}

	New(loc).
		On(defs, func(res ResolvedRoute) {
			seen = append(seen, res.URL)
		}).
		Connect()

	loc.SetFragment("#/a")

	if len(seen) != 2 || seen[0] != "#/b" || seen[1] != "#/a" {
		t.Errorf("seen = %v, want [#/b #/a]", seen)
	}
}

func TestRouterMatchOrderPrefersFirstRegistration(t *testing.T) {
	loc := NewMemoryLocation("")

	literal := 0
	pattern := 0

	r := New(loc).
		On("#/users/7", func(ResolvedRoute) { literal++ }).
		On(MustRoute("#/users/", Param("id")), func(ResolvedRoute) { pattern++ })
	r.Connect()

	loc.SetFragment("#/users/7")
	loc.SetFragment("#/users/8")

	if literal != 1 {
		t.Errorf("literal handled %d times, want 1", literal)
	}
	if pattern != 1 {
		t.Errorf("pattern handled %d times, want 1", pattern)
	}
}

// =============================================================================
// Regexp Interop
// =============================================================================

func TestPlainRegexpDefinitionsWork(t *testing.T) {
	loc := NewMemoryLocation("")

	re := regexp.MustCompile(`^#/files/(?P<name>\w+)$`)

	var name string
	r := New(loc).On(re, func(res ResolvedRoute) {
		name = res.Params["name"]
	})
	r.Connect()

	loc.SetFragment("#/files/readme")

	if name != "readme" {
		t.Errorf("name = %q, want %q", name, "readme")
	}
}
