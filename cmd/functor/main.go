package main

import (
	"flag"

	"github.com/edward-ap/functor/internal/functorapp"
)

func main() {
	verbose := flag.Bool("verbose", false, "log every preset bank change")
	remoteAddr := flag.String("remote", "", "serve the remote control API on this address (e.g. 127.0.0.1:8089)")
	flag.Parse()
	functorapp.SetVerboseLogging(*verbose)

	app := functorapp.NewApp(functorapp.Options{RemoteAddr: *remoteAddr})
	app.Run()
}
