package router

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/andreasphil/routeutil/pkg/fragment"
)

// recorder captures the ResolvedRoutes a handler receives.
type recorder struct {
	calls []ResolvedRoute
}

func (r *recorder) handler() Handler {
	return func(res ResolvedRoute) { r.calls = append(r.calls, res) }
}

func (r *recorder) last(t *testing.T) ResolvedRoute {
	t.Helper()
	if len(r.calls) == 0 {
		t.Fatal("no resolutions recorded")
	}
	return r.calls[len(r.calls)-1]
}

func TestRouterFirstMatchWins(t *testing.T) {
	loc := NewMemoryLocation("#/users/7")
	users := fragment.MustRoute("#/users/", fragment.Param("id"))

	var home, user, missed recorder
	New(loc).
		On("#/home", home.handler()).
		On(users, user.handler()).
		Fallback(missed.handler()).
		Connect()

	if len(home.calls) != 0 {
		t.Errorf("home handler called %d times, want 0", len(home.calls))
	}
	if len(missed.calls) != 0 {
		t.Errorf("fallback called %d times, want 0", len(missed.calls))
	}
	if len(user.calls) != 1 {
		t.Fatalf("user handler called %d times, want 1", len(user.calls))
	}

	got := user.last(t)
	if got.URL != "#/users/7" {
		t.Errorf("URL = %q, want %q", got.URL, "#/users/7")
	}
	if got.Route != Definition(users) {
		t.Errorf("Route = %v, want the registered pattern", got.Route)
	}
	if want := map[string]string{"id": "7"}; !reflect.DeepEqual(got.Params, want) {
		t.Errorf("Params = %v, want %v", got.Params, want)
	}
}

func TestRouterMatchOrder(t *testing.T) {
	wildcard := fragment.MustRoute("#/", fragment.Param("page"))

	t.Run("literal registered first wins", func(t *testing.T) {
		loc := NewMemoryLocation("#/home")
		var lit, pat recorder
		New(loc).
			On("#/home", lit.handler()).
			On(wildcard, pat.handler()).
			Connect()

		if len(lit.calls) != 1 || len(pat.calls) != 0 {
			t.Errorf("calls = (literal %d, pattern %d), want (1, 0)", len(lit.calls), len(pat.calls))
		}
	})

	t.Run("pattern registered first wins", func(t *testing.T) {
		loc := NewMemoryLocation("#/home")
		var lit, pat recorder
		New(loc).
			On(wildcard, pat.handler()).
			On("#/home", lit.handler()).
			Connect()

		if len(lit.calls) != 0 || len(pat.calls) != 1 {
			t.Errorf("calls = (literal %d, pattern %d), want (0, 1)", len(lit.calls), len(pat.calls))
		}
	})
}

func TestRouterReplaceKeepsPosition(t *testing.T) {
	loc := NewMemoryLocation("")
	catchAll := fragment.MustRoute("#/", fragment.Param("page"))

	var first, second, shadow recorder
	r := New(loc).
		On("#/a", first.handler()).
		On(catchAll, shadow.handler())
	r.On("#/a", second.handler())
	r.Connect()

	loc.SetFragment("#/a")

	if len(first.calls) != 0 {
		t.Errorf("replaced handler called %d times, want 0", len(first.calls))
	}
	if len(shadow.calls) != 0 {
		t.Errorf("later pattern called %d times, want 0: replacement moved the entry", len(shadow.calls))
	}
	if len(second.calls) != 1 {
		t.Errorf("replacement handler called %d times, want 1", len(second.calls))
	}
}

func TestRouterPatternsCompareByIdentity(t *testing.T) {
	p1 := fragment.MustRoute("#/same")
	p2 := fragment.MustRoute("#/same")

	loc := NewMemoryLocation("")
	var h1, h2 recorder
	r := New(loc).
		On(p1, h1.handler()).
		On(p2, h2.handler()).
		Connect()

	loc.SetFragment("#/same")
	if len(h1.calls) != 1 || len(h2.calls) != 0 {
		t.Fatalf("calls = (%d, %d), want first pattern to win with (1, 0)", len(h1.calls), len(h2.calls))
	}

	// Removing the first pattern must leave the second, identical one
	// registered.
	r.Off(p1)
	loc.SetFragment("#/elsewhere")
	loc.SetFragment("#/same")
	if len(h2.calls) != 1 {
		t.Errorf("second pattern called %d times after Off(p1), want 1", len(h2.calls))
	}
}

func TestRouterOff(t *testing.T) {
	loc := NewMemoryLocation("")
	var rec recorder
	r := New(loc).
		On("#/a", rec.handler()).
		Connect()

	r.Off("#/a")
	r.Off("#/never-registered")

	loc.SetFragment("#/a")
	if len(rec.calls) != 0 {
		t.Errorf("handler called %d times after Off, want 0", len(rec.calls))
	}
}

func TestRouterBulkRegistration(t *testing.T) {
	loc := NewMemoryLocation("")
	var rec recorder
	r := New(loc).
		On([]Definition{"#/a", "#/b"}, rec.handler()).
		Connect()

	loc.SetFragment("#/a")
	loc.SetFragment("#/b")
	if len(rec.calls) != 2 {
		t.Fatalf("handler called %d times, want 2", len(rec.calls))
	}
	if rec.calls[0].Route != Definition("#/a") || rec.calls[1].Route != Definition("#/b") {
		t.Errorf("routes = %v, %v, want #/a then #/b", rec.calls[0].Route, rec.calls[1].Route)
	}

	// Typed slices work too.
	r.Off([]string{"#/a", "#/b"})
	loc.SetFragment("#/a")
	if len(rec.calls) != 2 {
		t.Errorf("handler called %d times after bulk Off, want 2", len(rec.calls))
	}
}

func TestRouterFallback(t *testing.T) {
	loc := NewMemoryLocation("")
	var matched, missed recorder
	New(loc).
		On("#/known", matched.handler()).
		Fallback(missed.handler()).
		Connect()

	loc.SetFragment("#/unknown")

	if len(matched.calls) != 0 {
		t.Errorf("route handler called %d times, want 0", len(matched.calls))
	}
	// Connect resolved "" first, then the navigation resolved
	// "#/unknown"; both miss.
	if len(missed.calls) != 2 {
		t.Fatalf("fallback called %d times, want 2", len(missed.calls))
	}

	got := missed.last(t)
	if got.URL != "#/unknown" {
		t.Errorf("URL = %q, want %q", got.URL, "#/unknown")
	}
	if got.Route != nil {
		t.Errorf("Route = %v, want nil", got.Route)
	}
	if len(got.Params) != 0 {
		t.Errorf("Params = %v, want empty", got.Params)
	}
}

func TestRouterAfterEach(t *testing.T) {
	t.Run("runs after the route handler", func(t *testing.T) {
		loc := NewMemoryLocation("")
		var order []string
		var seen ResolvedRoute
		New(loc).
			On("#/a", func(res ResolvedRoute) { order = append(order, "handler") }).
			AfterEach(func(res ResolvedRoute) {
				order = append(order, "after")
				seen = res
			}).
			Connect()

		loc.SetFragment("#/a")

		if want := []string{"after", "handler", "after"}; !reflect.DeepEqual(order, want) {
			t.Errorf("order = %v, want %v", order, want)
		}
		if seen.URL != "#/a" || seen.Route != Definition("#/a") {
			t.Errorf("afterEach saw %+v, want the matched resolution", seen)
		}
	})

	t.Run("runs on misses without a fallback", func(t *testing.T) {
		loc := NewMemoryLocation("#/nowhere")
		var after recorder
		New(loc).
			AfterEach(after.handler()).
			Connect()

		if len(after.calls) != 1 {
			t.Fatalf("afterEach called %d times, want 1", len(after.calls))
		}
		got := after.last(t)
		if got.URL != "#/nowhere" || got.Route != nil {
			t.Errorf("afterEach saw %+v, want an unmatched resolution", got)
		}
	})

	t.Run("runs after the fallback", func(t *testing.T) {
		loc := NewMemoryLocation("#/nowhere")
		var order []string
		New(loc).
			Fallback(func(ResolvedRoute) { order = append(order, "fallback") }).
			AfterEach(func(ResolvedRoute) { order = append(order, "after") }).
			Connect()

		if want := []string{"fallback", "after"}; !reflect.DeepEqual(order, want) {
			t.Errorf("order = %v, want %v", order, want)
		}
	})
}

func TestRouterUnnamedCapturesIgnored(t *testing.T) {
	loc := NewMemoryLocation("")
	pat := regexp.MustCompile(`^#/x/(\w+)/(?P<id>\w+)$`)

	var rec recorder
	New(loc).
		On(pat, rec.handler()).
		Connect()

	loc.SetFragment("#/x/group/42")

	got := rec.last(t)
	if want := map[string]string{"id": "42"}; !reflect.DeepEqual(got.Params, want) {
		t.Errorf("Params = %v, want %v", got.Params, want)
	}
}

func TestRouterPatternMustCoverFullFragment(t *testing.T) {
	loc := NewMemoryLocation("")
	unanchored := regexp.MustCompile(`#/part`)

	var matched, missed recorder
	New(loc).
		On(unanchored, matched.handler()).
		Fallback(missed.handler()).
		Connect()

	loc.SetFragment("#/part/extra")
	if len(matched.calls) != 0 {
		t.Errorf("substring match accepted: handler called %d times, want 0", len(matched.calls))
	}

	loc.SetFragment("#/part")
	if len(matched.calls) != 1 {
		t.Errorf("exact-length match rejected: handler called %d times, want 1", len(matched.calls))
	}
}

func TestRouterChainingReturnsSameRouter(t *testing.T) {
	r := New(NewMemoryLocation(""))
	if r.On("#/a", func(ResolvedRoute) {}) != r {
		t.Error("On did not return the receiver")
	}
	if r.Off("#/a") != r {
		t.Error("Off did not return the receiver")
	}
	if r.Fallback(nil) != r {
		t.Error("Fallback did not return the receiver")
	}
	if r.AfterEach(nil) != r {
		t.Error("AfterEach did not return the receiver")
	}
	if r.Connect() != r {
		t.Error("Connect did not return the receiver")
	}
}

func TestRouterRegistrationPanics(t *testing.T) {
	mustPanic := func(t *testing.T, name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		fn()
	}

	r := New(NewMemoryLocation(""))
	mustPanic(t, "nil handler", func() { r.On("#/a", nil) })
	mustPanic(t, "unsupported definition type", func() { r.On(42, func(ResolvedRoute) {}) })
	mustPanic(t, "nil pattern", func() {
		var p *regexp.Regexp
		r.On(p, func(ResolvedRoute) {})
	})
	mustPanic(t, "nil location", func() { New(nil) })
}

func BenchmarkResolve(b *testing.B) {
	loc := NewMemoryLocation("")
	r := New(loc)
	for _, def := range []string{"#/a", "#/b", "#/c", "#/d"} {
		r.On(def, func(ResolvedRoute) {})
	}
	r.On(fragment.MustRoute("#/users/", fragment.Param("id")), func(ResolvedRoute) {})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.resolve("#/users/42")
	}
}
