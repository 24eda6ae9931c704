package loader

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source identifies where a schema document originates: an on-disk path, an
// entry in the loader's fs.FS, or an HTTP URL. The zero Source is invalid;
// construct one with SourceFromFile, SourceFromFS, or SourceFromURL.
type Source struct {
	kind     SourceKind
	location string
}

// Kind reports the modality the source resolves through.
func (s Source) Kind() SourceKind { return s.kind }

// Location returns the path, fs entry name, or URL the source points at.
func (s Source) Location() string { return s.location }

func (s Source) valid() bool { return s.kind != "" }

// SourceFromFile returns a Source pointing at an on-disk schema document.
func SourceFromFile(path string) Source {
	return Source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS returns a Source identifying a document inside the loader's
// fs.FS.
func SourceFromFS(name string) Source {
	return Source{kind: SourceKindFS, location: name}
}

// SourceFromURL returns a Source for an HTTP or HTTPS endpoint. Invalid URLs
// panic so configuration mistakes surface at construction.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("loader: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("loader: invalid URL %q: %v", raw, err))
	}
	return Source{kind: SourceKindURL, location: raw}
}

// Document pairs fetched schema payload bytes with the Source they came from.
// Documents are produced by Loader.Fetch.
type Document struct {
	source Source
	raw    []byte
}

// Source returns the origin of the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	return d.source.location
}
