//go:build !unix

package executor

func startProcess(_ launchSpec) (Process, error) {
	return nil, ErrUnsupportedPlatform
}
