// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package upload stores user images on local disk and serves them back.

Files live under UPLOAD_DIR in one directory per kind (fabrics, projects,
patterns) and are named by a fresh UUID plus an extension chosen from the
sniffed content type, never from the client's filename. All file access goes
through an [os.Root], so no request can reach outside UPLOAD_DIR.
*/
package upload

// Kind selects the directory an image is stored in.
type Kind string

const (
	KindFabric  Kind = "fabric"
	KindProject Kind = "project"
	KindPattern Kind = "pattern"
)

// ParseKind validates a kind taken from a path or body.
func ParseKind(raw string) (Kind, bool) {
	switch kind := Kind(raw); kind {
	case KindFabric, KindProject, KindPattern:
		return kind, true
	}
	return "", false
}

// Dir is the directory name for the kind, relative to the upload root.
func (kind Kind) Dir() string {
	return string(kind) + "s"
}

// allowedTypes maps accepted sniffed content types to the stored extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

const (
	// DefaultMaxBytes is the upload size limit when none is configured.
	DefaultMaxBytes int64 = 10 << 20

	// FormField is the multipart field carrying the image.
	FormField = "image"

	// sniffLength is how much of the file content type detection looks at.
	sniffLength = 512
)

const (
	MsgUploaded     = "File uploaded successfully"
	MsgDeleted      = "File deleted successfully"
	MsgNoFile       = "No file uploaded"
	MsgInvalidKind  = "Invalid file type"
	MsgInvalidImage = "Invalid file type. Only JPEG, PNG, and WebP images are allowed."
	MsgBadFilename  = "Invalid filename"
	MsgDeleteFields = "Filename and type are required"
)

// Stored describes a saved image.
type Stored struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Path         string `json:"-"` // relative to the upload root, slash separated
}
