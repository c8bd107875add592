package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rxtech-lab/price-convert/pkg/errors"
)

// tempPath returns a hidden sibling of outputPath, unique per call.
func tempPath(outputPath string) string {
	dir, base := filepath.Split(outputPath)

	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))
}

// commit moves the finished temporary file over outputPath.
func commit(tmpPath, outputPath string) error {
	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)

		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to move output into place at %s", outputPath)
	}

	return nil
}

// discard removes a temporary file that was never committed.
func discard(tmpPath string) error {
	if tmpPath == "" {
		return nil
	}

	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temporary file %s: %w", tmpPath, err)
	}

	return nil
}
