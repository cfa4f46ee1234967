// Package process isolates the platform-specific parts of filter subprocess
// management: process group setup and tree kill on cancellation.
package process
