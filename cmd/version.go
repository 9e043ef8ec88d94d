package cmd

// Version is the application version, set at build time via ldflags:
//
//	go build -ldflags "-X amon/cmd.Version=1.2.0"
var Version = "0.1.0"
