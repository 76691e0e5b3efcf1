// Package mapview is a headless, interactive 2D map viewer.
//
// A [Map] renders a background raster plus categorized point markers
// (waypoints, stops, gates) over a fixed logical square, and turns pointer,
// wheel and zoom input into pan, zoom, hover, select and drag interaction.
// Hosts feed input in display coordinates, call [Map.Tick] once per display
// refresh and upload [Map.Frame] whenever Tick reports a redraw.
//
// # Quick start
//
//	m, err := mapview.New(mapview.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	m.Resize(800, 600, 1)
//	m.SetPoints(map[string]mapview.GroupInput{
//		"stops": {Points: []mapview.PointInput{{Position: mapview.Vec2{X: 0, Y: 0}}}},
//	}, false)
//	m.ZoomFit()
//	m.OnPointClick(func(e mapview.PointEvent) { fmt.Println(e.Point.Group, e.Point.Index) })
//
//	for each frame {
//		if m.Tick(dt) {
//			upload(m.Frame())
//		}
//	}
//
// # Coordinate spaces
//
// World positions come from the host's data source. A fixed [Projection]
// maps them onto the logical square of side [Config.MapSize]. The mutable
// [View] maps logical positions onto device pixels with a pan offset and a
// clamped scale. Display coordinates handed to input methods are multiplied
// by the host pixel ratio (capped at [Config.MaxPixelRatio]) to get device
// pixels.
//
// # Threading
//
// A Map is not safe for concurrent use. Call every method from the goroutine
// that drives Tick. Image loads run in the background and are installed by
// the next Tick.
//
// Hosts: package ebitenmap runs a Map in an Ebitengine window, package remote
// serves one Map per websocket session.
package mapview
