package cmd

// version is set at build time via -ldflags "-X ...cmd.version=...".
var version = "dev"
