// Package browser provides the window-backed Location used by routers
// compiled to WebAssembly.
//
// The implementation is only available under GOOS=js GOARCH=wasm; on
// other platforms the package is empty. Native tests and tools use
// router.MemoryLocation instead.
package browser
