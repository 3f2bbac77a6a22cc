package version

// VERSION is overwritten at build time with -ldflags "-X github.com/klippa-app/hsi-cli/version.VERSION=...".
var VERSION = "development"
