//go:build !unix

package preflight

import "os"

func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".leafmerge-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
