package googledocs

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2/google"
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DocsClient is the slice of the Google Docs API the generator needs.
type DocsClient interface {
	Get(ctx context.Context, documentID string) (*docs.Document, error)
	BatchUpdate(ctx context.Context, documentID string, requests []*docs.Request) error
}

// DriveClient is the slice of the Google Drive API the generator needs.
type DriveClient interface {
	Copy(ctx context.Context, fileID, name string, parents []string) (*drive.File, error)
	Upload(ctx context.Context, name, mimeType string, parents []string, content []byte) (*drive.File, error)
	Export(ctx context.Context, fileID, mimeType string) ([]byte, error)
	AllowLinkRead(ctx context.Context, fileID string) error
	Delete(ctx context.Context, fileID string) error
}

// newAPIClients authenticates with the service-account JSON key and returns
// ready-to-use docs and drive adapters. Authentication happens here, at
// construction time; a bad key fails immediately rather than on first use.
func newAPIClients(ctx context.Context, serviceAccountKey []byte) (DocsClient, DriveClient, error) {
	creds, err := google.CredentialsFromJSON(ctx, serviceAccountKey,
		docs.DocumentsScope, drive.DriveScope)
	if err != nil {
		return nil, nil, fmt.Errorf("parse service account key: %w", err)
	}

	docsSvc, err := docs.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("create docs service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("create drive service: %w", err)
	}

	return &docsAdapter{svc: docsSvc}, &driveAdapter{svc: driveSvc}, nil
}

// NewDriveClient authenticates and returns a standalone Drive client, for
// callers that only need Drive access such as orphan cleanup.
func NewDriveClient(ctx context.Context, serviceAccountKey []byte) (DriveClient, error) {
	_, driveClient, err := newAPIClients(ctx, serviceAccountKey)
	if err != nil {
		return nil, err
	}
	return driveClient, nil
}

type docsAdapter struct {
	svc *docs.Service
}

func (a *docsAdapter) Get(ctx context.Context, documentID string) (*docs.Document, error) {
	return a.svc.Documents.Get(documentID).Context(ctx).Do()
}

func (a *docsAdapter) BatchUpdate(ctx context.Context, documentID string, requests []*docs.Request) error {
	_, err := a.svc.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

type driveAdapter struct {
	svc *drive.Service
}

func (a *driveAdapter) Copy(ctx context.Context, fileID, name string, parents []string) (*drive.File, error) {
	return a.svc.Files.Copy(fileID, &drive.File{
		Name:    name,
		Parents: parents,
	}).Fields("id", "webViewLink").Context(ctx).Do()
}

func (a *driveAdapter) Upload(ctx context.Context, name, mimeType string, parents []string, content []byte) (*drive.File, error) {
	return a.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  parents,
	}).Media(bytes.NewReader(content)).Fields("id", "webViewLink", "webContentLink").Context(ctx).Do()
}

func (a *driveAdapter) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	resp, err := a.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (a *driveAdapter) AllowLinkRead(ctx context.Context, fileID string) error {
	_, err := a.svc.Permissions.Create(fileID, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	return err
}

func (a *driveAdapter) Delete(ctx context.Context, fileID string) error {
	return a.svc.Files.Delete(fileID).Context(ctx).Do()
}
