package version

// Version is overridden at build time with
// -ldflags "-X github.com/netcartographer/cartographer/pkg/version.Version=..."
var Version = "v0.3.0"
