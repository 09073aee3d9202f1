// ABOUTME: Version constants for soundio-go
// ABOUTME: Product, manufacturer and version strings reported by the CLI
package version

// Version is overridden at build time with -ldflags "-X .../version.Version=..."
var Version = "0.3.0"

const (
	Product      = "soundconv"
	Manufacturer = "Resonate-Protocol"
)

// String formats the product banner
func String() string {
	return Product + " " + Version
}
