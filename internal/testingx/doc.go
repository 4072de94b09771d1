// Package testingx contains code useful for testing, such as fake DNS
// servers speaking DNS-over-UDP and DNS-over-TCP.
package testingx
