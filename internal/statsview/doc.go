// Package statsview serves runtime statistics charts over HTTP. The server
// is only available in builds with the statsview build tag.
//
// After launch the charts are available at
//
//	localhost:12600/debug/statsview
//
// and the standard pprof endpoints at
//
//	localhost:12600/debug/pprof/
package statsview
