package main

import "os"

func main() {
	app := NewApp(os.Stdin, os.Stdout, os.Stderr) // Defined in app.go
	os.Exit(app.Run(os.Args[1:]))
}
