package main

import (
	"fmt"

	"github.com/ytget/credential-mapper/internal/app"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	fmt.Printf("%s v%s starting...\n", app.AppName, version)
	app.Run(version)
}
