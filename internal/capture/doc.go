// Package capture supervises ffmpeg runs that write one stream to one
// output file.
package capture
