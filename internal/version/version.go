// ABOUTME: Build identity for the sampler binaries
// ABOUTME: Reported in CLI output, saved state and log lines
package version

const (
	// Version is the release version
	Version = "0.1.0"
	// Product is the user-facing product name
	Product = "Reverse Reverb"
	// Manufacturer identifies the vendor
	Manufacturer = "Harper Reed"
)

// String returns "Product Version"
func String() string {
	return Product + " " + Version
}
