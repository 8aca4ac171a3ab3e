package session

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

// Save writes a bundle to path atomically, holding a sibling lock file for
// the duration so concurrent CLI invocations don't interleave writes.
func Save(path string, b *Bundle) error {
	d, err := b.Marshal()
	if err != nil {
		return err
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking session %s: %w", path, err)
	}
	defer lock.Unlock()
	if err := atomic.WriteFile(path, bytes.NewReader(d)); err != nil {
		return fmt.Errorf("writing session %s: %w", path, err)
	}
	return nil
}

// Load reads a bundle from path.
func Load(path string) (*Bundle, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("locking session %s: %w", path, err)
	}
	defer lock.Unlock()
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(d)
}
