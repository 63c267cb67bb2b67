// Package local archives takes on disk. It satisfies backend.Service so the
// booth runs fully offline: strips land under the archive directory,
// recipients are recorded rather than mailed, and the strip link is a file
// path. The archive also feeds the sessions and upload verbs.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/compose"
)

const takesPrefix = "takes"

// Manifest is the per-take record stored beside the images.
type Manifest struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	Party      string    `json:"party,omitempty"`
	Shots      int       `json:"shots"`
	Recipients []string  `json:"recipients,omitempty"`
}

// Archive stores takes under basePath via diskv.
type Archive struct {
	d        *diskv.Diskv
	basePath string
	profile  backend.Profile
}

// Open returns an Archive rooted at basePath. profile is what
// RemoteProfile reports; the zero value works.
func Open(basePath string, profile backend.Profile) (*Archive, error) {
	if basePath == "" {
		return nil, fmt.Errorf("local: archive path required")
	}
	if profile.ID == "" {
		profile.ID = "local"
	}
	// Offline booths have no remote feature flags; typing in addresses is
	// the only way recipients arrive.
	profile.ManualRecipients = true
	return &Archive{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      8 * 1024 * 1024, // 8MB; strips are sizable
		}),
		basePath: basePath,
		profile:  profile,
	}, nil
}

var _ backend.Service = (*Archive)(nil)

// Upload writes the manifest, strip, and numbered photos for the take.
func (a *Archive) Upload(ctx context.Context, take backend.Take) (backend.Handle, error) {
	if take.ID == "" {
		return backend.Handle{}, &backend.Error{Kind: backend.KindEncode, Op: "archive", Err: fmt.Errorf("take id required")}
	}

	manifest := Manifest{ID: take.ID, At: take.At, Party: take.Party, Shots: len(take.Photos)}
	data, err := json.Marshal(manifest)
	if err != nil {
		return backend.Handle{}, &backend.Error{Kind: backend.KindEncode, Op: "archive", Err: err}
	}
	if err := a.d.Write(manifestKey(take.ID), data); err != nil {
		return backend.Handle{}, &backend.Error{Kind: backend.KindNetwork, Op: "archive", Err: err}
	}

	var buf bytes.Buffer
	if err := compose.EncodePNG(&buf, take.Strip); err != nil {
		return backend.Handle{}, &backend.Error{Kind: backend.KindEncode, Op: "archive strip", Err: err}
	}
	if err := a.d.Write(stripKey(take.ID), buf.Bytes()); err != nil {
		return backend.Handle{}, &backend.Error{Kind: backend.KindNetwork, Op: "archive strip", Err: err}
	}

	for i, photo := range take.Photos {
		buf.Reset()
		if err := compose.EncodePNG(&buf, photo); err != nil {
			return backend.Handle{}, &backend.Error{Kind: backend.KindEncode, Op: fmt.Sprintf("archive photo %d", i+1), Err: err}
		}
		if err := a.d.Write(photoKey(take.ID, i+1), buf.Bytes()); err != nil {
			return backend.Handle{}, &backend.Error{Kind: backend.KindNetwork, Op: fmt.Sprintf("archive photo %d", i+1), Err: err}
		}
	}

	return backend.Handle{StripID: take.ID, FolderID: take.ID}, nil
}

// Notify records the recipients in the manifest and an emails.txt beside
// the photos. Nothing is sent; the archive is offline by definition.
func (a *Archive) Notify(ctx context.Context, handle backend.Handle, recipients []string) error {
	manifest, err := a.manifest(handle.FolderID)
	if err != nil {
		return err
	}
	manifest.Recipients = append(manifest.Recipients, recipients...)

	data, err := json.Marshal(manifest)
	if err != nil {
		return &backend.Error{Kind: backend.KindEncode, Op: "record recipients", Err: err}
	}
	if err := a.d.Write(manifestKey(handle.FolderID), data); err != nil {
		return &backend.Error{Kind: backend.KindNetwork, Op: "record recipients", Err: err}
	}
	emails := strings.Join(recipients, "\n")
	if err := a.d.Write(emailsKey(handle.FolderID), []byte(emails)); err != nil {
		return &backend.Error{Kind: backend.KindNetwork, Op: "record recipients", Err: err}
	}
	return nil
}

// LinkFor returns a file:// URL for the archived strip. The QR code still
// works for anyone scanning on the same machine, and the path prints legibly
// for everyone else.
func (a *Archive) LinkFor(handle backend.Handle) string {
	p := filepath.Join(a.basePath, takesPrefix, handle.StripID, "strip.png")
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return "file://" + filepath.ToSlash(p)
}

// RemoteProfile reports the configured offline profile.
func (a *Archive) RemoteProfile(ctx context.Context) (backend.Profile, error) {
	return a.profile, nil
}

// List returns manifests for every archived take, newest first.
func (a *Archive) List(ctx context.Context) []Manifest {
	manifests := make([]Manifest, 0)
	for key := range a.d.KeysPrefix(takesPrefix+"/", ctx.Done()) {
		if !strings.HasSuffix(key, "/manifest.json") {
			continue
		}
		val, err := a.d.Read(key)
		if err != nil {
			continue
		}
		var m Manifest
		if err := json.Unmarshal(val, &m); err != nil {
			continue
		}
		manifests = append(manifests, m)
	}
	sort.SliceStable(manifests, func(i, j int) bool {
		if manifests[i].At.Equal(manifests[j].At) {
			return manifests[i].ID < manifests[j].ID
		}
		return manifests[i].At.After(manifests[j].At)
	})
	return manifests
}

// LoadTake rebuilds an archived take, decoding the strip and photos. Used
// by the upload verb to push an offline take to a remote service.
func (a *Archive) LoadTake(id string) (backend.Take, error) {
	manifest, err := a.manifest(id)
	if err != nil {
		return backend.Take{}, err
	}

	take := backend.Take{ID: manifest.ID, At: manifest.At, Party: manifest.Party}

	raw, err := a.d.Read(stripKey(id))
	if err != nil {
		return backend.Take{}, &backend.Error{Kind: backend.KindNetwork, Op: "load strip", Err: err}
	}
	strip, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return backend.Take{}, &backend.Error{Kind: backend.KindProtocol, Op: "load strip", Err: err}
	}
	take.Strip = strip

	for i := 1; i <= manifest.Shots; i++ {
		raw, err := a.d.Read(photoKey(id, i))
		if err != nil {
			return backend.Take{}, &backend.Error{Kind: backend.KindNetwork, Op: fmt.Sprintf("load photo %d", i), Err: err}
		}
		photo, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return backend.Take{}, &backend.Error{Kind: backend.KindProtocol, Op: fmt.Sprintf("load photo %d", i), Err: err}
		}
		take.Photos = append(take.Photos, photo)
	}
	return take, nil
}

func (a *Archive) manifest(id string) (Manifest, error) {
	val, err := a.d.Read(manifestKey(id))
	if err != nil {
		return Manifest{}, &backend.Error{Kind: backend.KindNetwork, Op: "load manifest", Err: err}
	}
	var m Manifest
	if err := json.Unmarshal(val, &m); err != nil {
		return Manifest{}, &backend.Error{Kind: backend.KindProtocol, Op: "load manifest", Err: err}
	}
	return m, nil
}

func manifestKey(id string) string { return takesPrefix + "/" + id + "/manifest.json" }
func stripKey(id string) string    { return takesPrefix + "/" + id + "/strip.png" }
func emailsKey(id string) string   { return takesPrefix + "/" + id + "/emails.txt" }

func photoKey(id string, n int) string {
	return fmt.Sprintf("%s/%s/photo_%d.png", takesPrefix, id, n)
}

// Keys use / separators so takes land in one directory per session id.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(pathKey.Path, pathKey.FileName), "/")
}
