package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// CheckFFmpeg reports the ffmpeg binary captures and tagging will execute.
// A configured path is honored as-is when it resolves; otherwise "ffmpeg" is
// looked up on PATH, which matches what os/exec does at capture time.
func CheckFFmpeg(configured string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Records streams and writes metadata",
	}

	binary := strings.TrimSpace(configured)
	if binary != "" && binary != "ffmpeg" {
		if info, err := os.Stat(binary); err == nil && isExecutable(info) {
			result.Command = binary
			result.Available = true
			return result
		}
		if resolved, err := exec.LookPath(binary); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
		result.Command = binary
		result.Available = false
		result.Detail = fmt.Sprintf("binary %q not found", binary)
		return result
	}

	if ffmpegPath, err := exec.LookPath("ffmpeg"); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = "ffmpeg"
	result.Available = false
	result.Detail = `binary "ffmpeg" not found`
	return result
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
