// wbg paints a solid color or an image behind the windows on every
// output of a wlroots-style Wayland compositor.
package main

import "os"

// Version is set during build.
var Version = "1.1.0"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
