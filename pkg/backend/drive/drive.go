// Package drive distributes takes through Google Drive: each take gets its
// own folder holding strip.png, the numbered source photos, and the
// recipient list, then an event function is poked to send the email.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/compose"
)

// DefaultAPIBase is the Drive upload API.
const DefaultAPIBase = "https://www.googleapis.com/upload/drive/v3"

// Options configure the service. Endpoint is the event function base URL;
// Folder is the Drive folder that collects per-take folders.
type Options struct {
	Endpoint string
	Token    string
	Instance string
	Folder   string

	// APIBase overrides the Drive API URL. Tests point this at a local server.
	APIBase string
	Client  *http.Client
}

type Service struct {
	endpoint string
	token    string
	instance string
	folder   string
	apiBase  string
	client   *http.Client
}

func New(opts Options) *Service {
	if opts.APIBase == "" {
		opts.APIBase = DefaultAPIBase
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &Service{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		token:    opts.Token,
		instance: opts.Instance,
		folder:   opts.Folder,
		apiBase:  strings.TrimRight(opts.APIBase, "/"),
		client:   opts.Client,
	}
}

var _ backend.Service = (*Service)(nil)

// fileMetadata is the slice of the Drive file resource we care about.
type fileMetadata struct {
	ID string `json:"id"`
}

// Upload creates a folder named for the take's timestamp and fills it with
// strip.png and photo_N.png. The strip and photos upload in parallel; the
// first failure cancels the rest.
func (s *Service) Upload(ctx context.Context, take backend.Take) (backend.Handle, error) {
	folderID, err := s.createFolder(ctx, take.At.Format(time.RFC3339))
	if err != nil {
		return backend.Handle{}, err
	}

	var stripID string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		encoded, err := encodePNG(take.Strip)
		if err != nil {
			return err
		}
		file, err := s.uploadFile(gctx, encoded, "image/png", "strip.png", folderID)
		if err != nil {
			return err
		}
		stripID = file.ID
		return nil
	})
	for i, photo := range take.Photos {
		name := fmt.Sprintf("photo_%d.png", i+1)
		photo := photo
		g.Go(func() error {
			encoded, err := encodePNG(photo)
			if err != nil {
				return err
			}
			_, err = s.uploadFile(gctx, encoded, "image/png", name, folderID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return backend.Handle{}, err
	}

	return backend.Handle{StripID: stripID, FolderID: folderID}, nil
}

// Notify records the recipient list beside the photos and asks the event
// function to send the mail.
func (s *Service) Notify(ctx context.Context, handle backend.Handle, recipients []string) error {
	emails := strings.Join(recipients, "\n")
	if _, err := s.uploadFile(ctx, []byte(emails), "text/plain", "emails.txt", handle.FolderID); err != nil {
		return err
	}

	body, _ := json.Marshal(map[string]string{"folderId": handle.FolderID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/functions/v1/send-take", bytes.NewReader(body))
	if err != nil {
		return &backend.Error{Kind: backend.KindNetwork, Op: "notify", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &backend.Error{Kind: backend.KindNetwork, Op: "notify", Err: err}
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "notify"); err != nil {
		return err
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return &backend.Error{Kind: backend.KindProtocol, Op: "notify", Err: err}
	}
	if status.Status != "success" {
		return &backend.Error{Kind: backend.KindNetwork, Op: "notify", Err: fmt.Errorf("service status %q", status.Status)}
	}
	return nil
}

// LinkFor returns the public strip URL used for the QR code.
func (s *Service) LinkFor(handle backend.Handle) string {
	return "https://drive.google.com/uc?id=" + handle.StripID
}

// RemoteProfile fetches this booth's event profile from the event function.
func (s *Service) RemoteProfile(ctx context.Context) (backend.Profile, error) {
	u := s.endpoint + "/functions/v1/instance-data?" + url.Values{"id": {s.instance}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return backend.Profile{}, &backend.Error{Kind: backend.KindNetwork, Op: "profile", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return backend.Profile{}, &backend.Error{Kind: backend.KindNetwork, Op: "profile", Err: err}
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "profile"); err != nil {
		return backend.Profile{}, err
	}

	var profile backend.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return backend.Profile{}, &backend.Error{Kind: backend.KindProtocol, Op: "profile", Err: err}
	}
	return profile, nil
}

// createFolder makes the per-take folder under the collection folder.
func (s *Service) createFolder(ctx context.Context, name string) (string, error) {
	metadata, _ := json.Marshal(map[string]any{
		"name":     name,
		"mimeType": "application/vnd.google-apps.folder",
		"parents":  []string{s.folder},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/files", bytes.NewReader(metadata))
	if err != nil {
		return "", &backend.Error{Kind: backend.KindNetwork, Op: "create folder", Err: err}
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &backend.Error{Kind: backend.KindNetwork, Op: "create folder", Err: err}
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "create folder"); err != nil {
		return "", err
	}

	var folder fileMetadata
	if err := json.NewDecoder(resp.Body).Decode(&folder); err != nil {
		return "", &backend.Error{Kind: backend.KindProtocol, Op: "create folder", Err: err}
	}
	return folder.ID, nil
}

// uploadFile performs a multipart upload: a JSON metadata part naming the
// file and its folder, then the content part.
func (s *Service) uploadFile(ctx context.Context, content []byte, contentType, name, folderID string) (fileMetadata, error) {
	metadata, _ := json.Marshal(map[string]any{
		"parents":     []string{folderID},
		"name":        name,
		"description": fmt.Sprintf("Uploaded at %s by booth", time.Now().Format(time.RFC3339)),
	})

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	metaPart, err := form.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json;charset=UTF-8"}})
	if err != nil {
		return fileMetadata{}, &backend.Error{Kind: backend.KindEncode, Op: "upload " + name, Err: err}
	}
	if _, err := metaPart.Write(metadata); err != nil {
		return fileMetadata{}, &backend.Error{Kind: backend.KindEncode, Op: "upload " + name, Err: err}
	}
	contentPart, err := form.CreatePart(textproto.MIMEHeader{"Content-Type": {contentType}})
	if err != nil {
		return fileMetadata{}, &backend.Error{Kind: backend.KindEncode, Op: "upload " + name, Err: err}
	}
	if _, err := contentPart.Write(content); err != nil {
		return fileMetadata{}, &backend.Error{Kind: backend.KindEncode, Op: "upload " + name, Err: err}
	}
	if err := form.Close(); err != nil {
		return fileMetadata{}, &backend.Error{Kind: backend.KindEncode, Op: "upload " + name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/files?uploadType=multipart", &body)
	if err != nil {
		return fileMetadata{}, &backend.Error{Kind: backend.KindNetwork, Op: "upload " + name, Err: err}
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+form.Boundary())
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fileMetadata{}, &backend.Error{Kind: backend.KindNetwork, Op: "upload " + name, Err: err}
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "upload "+name); err != nil {
		return fileMetadata{}, err
	}

	var file fileMetadata
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return fileMetadata{}, &backend.Error{Kind: backend.KindProtocol, Op: "upload " + name, Err: err}
	}
	return file, nil
}

func checkStatus(resp *http.Response, op string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return &backend.Error{Kind: backend.KindAuth, Op: op, Err: fmt.Errorf("status %s", resp.Status)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &backend.Error{Kind: backend.KindNetwork, Op: op, Err: fmt.Errorf("status %s", resp.Status)}
	}
	return nil
}

func encodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, &backend.Error{Kind: backend.KindEncode, Op: "encode", Err: fmt.Errorf("nil image")}
	}
	var buf bytes.Buffer
	if err := compose.EncodePNG(&buf, img); err != nil {
		return nil, &backend.Error{Kind: backend.KindEncode, Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}
