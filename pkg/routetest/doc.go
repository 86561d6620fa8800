// Package routetest provides testing helpers for hash routers.
//
// The routetest package reduces boilerplate when testing route wiring
// by recording the resolutions handlers receive and asserting on them.
//
// # Quick Start
//
//	func TestUserRoute(t *testing.T) {
//	    loc := router.NewMemoryLocation("")
//	    rec := routetest.NewRecorder()
//
//	    router.New(loc).
//	        On(fragment.MustRoute("#/users/", fragment.Param("id")), rec.Handler()).
//	        Connect()
//	    loc.SetFragment("#/users/7")
//
//	    routetest.ExpectCount(t, rec, 1)
//	    routetest.ExpectParams(t, rec, map[string]string{"id": "7"})
//	}
//
// # Recorders
//
// A Recorder hands out a router.Handler that captures every
// ResolvedRoute. Use one Recorder per handler slot, including the
// fallback and afterEach slots, to observe dispatch order and payloads.
package routetest
