package router_test

import (
	"fmt"

	"github.com/andreasphil/routeutil/pkg/fragment"
	"github.com/andreasphil/routeutil/pkg/router"
)

func Example() {
	loc := router.NewMemoryLocation("")

	r := router.New(loc, router.StartAt("#/home"))
	r.On("#/home", func(router.ResolvedRoute) {
		fmt.Println("home")
	})
	r.On(fragment.MustRoute("#/users/", fragment.Param("id")), func(res router.ResolvedRoute) {
		fmt.Println("user", res.Params["id"])
	})
	r.Fallback(func(res router.ResolvedRoute) {
		fmt.Println("not found:", res.URL)
	})
	r.Connect()

	loc.SetFragment("#/users/7")
	loc.SetFragment("#/missing")

	// Output:
	// home
	// user 7
	// not found: #/missing
}
