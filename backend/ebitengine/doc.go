// Package ebitengine provides a renderer backend and display surface for
// the presentation pipeline built on Ebitengine.
//
// Ebitengine owns the window, the GL context, and the real present; the
// adapter therefore treats Surface.SwapBuffers as the pipeline-side
// publication point: the frame composed by the worker becomes the frame
// the game loop shows. Context ownership calls are no-ops because
// Ebitengine confines all rendering to its own loop.
//
// Run must be called from the main goroutine, as required by Ebitengine:
//
//	display := ebitengine.NewDisplay("frames", 640, 480)
//	d, _ := framepresent.New(display, display, framepresent.NewOptions())
//	go runProducer(d)
//	if err := display.Run(); err != nil {
//	    log.Fatal(err)
//	}
package ebitengine
