package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/worklane/worklane/internal/bootstrap"
)

/**
 * @time: 2025/11/02
 * @file: main.go
 * @description: core program
 */

var configDir string

func init() {
	flag.StringVar(&configDir, "conf", "conf.d", "config file path, e.g. -conf ./conf.d")
}

func main() {
	flag.Parse()

	app, err := bootstrap.Bootstrap(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[Done] server exit...")
}
