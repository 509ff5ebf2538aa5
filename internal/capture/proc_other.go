//go:build !unix

package capture

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}
