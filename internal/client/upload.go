package client

import (
	"fmt"
	"path/filepath"
	"strings"
)

const mb = int64(1024 * 1024)

// UploadPolicy holds the pre-upload size thresholds. Both checks run before
// any bytes leave the machine.
type UploadPolicy struct {
	// MaxBytes is the hard limit; larger files are rejected outright.
	MaxBytes int64
	// ConfirmBytes is the soft limit; larger files need user confirmation
	// because processing will be slow.
	ConfirmBytes int64
}

// DefaultUploadPolicy mirrors the server's limits.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{MaxBytes: 500 * mb, ConfirmBytes: 100 * mb}
}

// UploadDecision is the outcome of the pre-flight check for an acceptable
// file.
type UploadDecision struct {
	// NeedsConfirm is set when the file is allowed but large enough to
	// warrant a confirmation prompt.
	NeedsConfirm bool
	Message      string
}

var uploadExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".webm": true,
}

// Check validates a candidate upload. An error means the file must not be
// sent.
func (p UploadPolicy) Check(filename string, size int64) (UploadDecision, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !uploadExtensions[ext] {
		return UploadDecision{}, fmt.Errorf("unsupported file type %q", ext)
	}
	if size > p.MaxBytes {
		return UploadDecision{}, fmt.Errorf("file is %d MB, above the %d MB limit", size/mb, p.MaxBytes/mb)
	}
	if size > p.ConfirmBytes {
		return UploadDecision{
			NeedsConfirm: true,
			Message: fmt.Sprintf("File is %d MB; processing may take a while. Continue?",
				size/mb),
		}, nil
	}
	return UploadDecision{}, nil
}
