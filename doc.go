// Package willow3d is a small retained-mode 3D scene graph core whose
// centerpiece is a [Camera] node that can stream its rendered output.
//
// Every element of the graph implements [Node]: it is initialized once,
// updated and drawn every frame, and uninitialized on teardown. Parents hand
// their computed matrices to children explicitly through [Transforms] rather
// than writing into shared state.
//
// # Quick start
//
//	mesh := willow3d.NewMesh("tri", positions, colors, indices)
//	cam := willow3d.NewCamera("main", mesh)
//	cam.Perspective = willow3d.Perspective{Fov: 60, Aspect: 16.0 / 9, Near: 0.1, Far: 100}
//	cam.SetPipe(int(os.Stdout.Fd()), 320, 180)
//
//	scene := willow3d.NewScene(gpu, cam)
//	if err := scene.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer scene.Close()
//	for i := 0; i < frames; i++ {
//		scene.Update(float64(i) / 60)
//		scene.Draw()
//	}
//
// The GPU is reached only through the [GPU] capability interface, carried in
// a [Context]. Two implementations ship with the module: willow3d/glgpu
// (OpenGL 3.3 via go-gl) and willow3d/ebitengpu ([Ebitengine] images).
//
// # Camera
//
// The camera computes a look-at view matrix from Eye, Center and Up, each
// optionally driven by a [TransformNode], and a perspective projection whose
// field of view may be animated by a [ScalarTrack]. When a capture
// destination is configured, every Draw reads the frame back into an RGBA8
// buffer and writes exactly width*height*4 bytes to it. The stream is raw and
// unframed; encoding it is up to the consumer.
//
// # Animation
//
// Keyframe tracks interpolate between keyframes with [gween] easing
// functions. Sampling is cheapest when time moves forward; going backwards
// rescans from the first keyframe.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package willow3d
