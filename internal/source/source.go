package source

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/teemow/audioinsight/internal/drive"
)

var (
	// ErrEmptySource is returned when a source carries no data.
	ErrEmptySource = errors.New("source has no data")

	// ErrUnsupportedMedia is returned when sniffing finds neither audio nor video.
	ErrUnsupportedMedia = errors.New("not an audio or video file")

	// ErrNoDownloader is returned when a remote reference is resolved without
	// a Drive connection.
	ErrNoDownloader = errors.New("no downloader configured for remote files")
)

// Source is one analysis input. The set of implementations is closed:
// LocalBytes and RemoteReference.
type Source interface {
	// DisplayName is the file name shown to the user and used for exports.
	DisplayName() string

	isSource()
}

// LocalBytes is a file read from the local machine.
type LocalBytes struct {
	Name     string
	Data     []byte
	MIMEType string
}

// DisplayName implements Source.
func (l LocalBytes) DisplayName() string { return l.Name }

func (LocalBytes) isSource() {}

// RemoteReference points at a Drive file.
type RemoteReference struct {
	ID       string
	Name     string
	MIMEType string
	Size     int64
}

// DisplayName implements Source. It falls back to the file ID.
func (r RemoteReference) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

func (RemoteReference) isSource() {}

// FromFile reads path into a LocalBytes. An empty mimeType is sniffed later
// by the Resolver.
func FromFile(path, mimeType string) (LocalBytes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LocalBytes{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return LocalBytes{
		Name:     filepath.Base(path),
		Data:     data,
		MIMEType: mimeType,
	}, nil
}

// FromFileInfo builds a RemoteReference from a Drive listing entry. A nil
// entry yields the zero reference.
func FromFileInfo(info *drive.FileInfo) RemoteReference {
	if info == nil {
		return RemoteReference{}
	}
	return RemoteReference{
		ID:       info.ID,
		Name:     info.Name,
		MIMEType: info.MimeType,
		Size:     info.Size,
	}
}

// Payload is what the analyzer consumes.
type Payload struct {
	Name     string
	Base64   string
	MIMEType string
}

// BaseName returns the file name without its extension.
func (p Payload) BaseName() string {
	name := filepath.Base(p.Name)
	if name == "." || name == string(filepath.Separator) {
		return "audio"
	}
	if base := strings.TrimSuffix(name, filepath.Ext(name)); base != "" {
		return base
	}
	return name
}

// Downloader fetches the content of a remote file.
type Downloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// Resolver turns Sources into Payloads.
type Resolver struct {
	downloader Downloader
}

// NewResolver creates a Resolver. downloader may be nil when only local
// files are resolved.
func NewResolver(downloader Downloader) *Resolver {
	return &Resolver{downloader: downloader}
}

// Resolve reads the source and returns its payload.
func (r *Resolver) Resolve(ctx context.Context, src Source) (Payload, error) {
	switch s := src.(type) {
	case LocalBytes:
		return newPayload(s.Name, s.Data, s.MIMEType)
	case *LocalBytes:
		return newPayload(s.Name, s.Data, s.MIMEType)
	case RemoteReference:
		return r.resolveRemote(ctx, s)
	case *RemoteReference:
		return r.resolveRemote(ctx, *s)
	default:
		return Payload{}, fmt.Errorf("unsupported source type %T", src)
	}
}

func (r *Resolver) resolveRemote(ctx context.Context, ref RemoteReference) (Payload, error) {
	if r.downloader == nil {
		return Payload{}, ErrNoDownloader
	}
	data, err := r.downloader.DownloadFile(ctx, ref.ID)
	if err != nil {
		return Payload{}, err
	}
	return newPayload(ref.DisplayName(), data, ref.MIMEType)
}

func newPayload(name string, data []byte, mimeType string) (Payload, error) {
	if len(data) == 0 {
		return Payload{}, fmt.Errorf("%w: %s", ErrEmptySource, name)
	}

	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		sniffed, err := Sniff(data)
		if err != nil {
			return Payload{}, fmt.Errorf("%s: %w", name, err)
		}
		mimeType = sniffed
	}

	return Payload{
		Name:     name,
		Base64:   base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
	}, nil
}

// Sniff detects the MIME type of data. Only audio and video types are accepted.
func Sniff(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		value, _, _ := strings.Cut(m.String(), ";")
		if IsMedia(value) {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: detected %s", ErrUnsupportedMedia, mt.String())
}

// IsMedia reports whether mimeType is an audio or video type.
func IsMedia(mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/") || strings.HasPrefix(mimeType, "video/")
}
