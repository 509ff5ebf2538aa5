// Command aircheck records live, time-shifted, and ondemand radio broadcasts
// to tagged MP4 files.
package main
