package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/go-pkgz/repeater"
)

// UploadsService handles activity file uploads. Uploads are asynchronous: the
// POST returns an upload record whose status must be polled until the provider
// finishes processing the file.
type UploadsService struct {
	service
}

// ErrUploadNotReady reports that an upload was still being processed when the
// polling budget ran out. The upload itself may still complete; poll again.
var ErrUploadNotReady = errors.New("strava: upload still processing")

// Upload statuses as reported by the provider.
const (
	uploadStatusProcessing = "Your activity is still being processed."
	uploadStatusDeleted    = "The created activity has been deleted."
	uploadStatusError      = "There was an error processing your activity."
	uploadStatusReady      = "Your activity is ready."
)

// Upload tracks an activity file through processing.
type Upload struct {
	ID         int64  `json:"id"`
	IDStr      string `json:"id_str"`
	ExternalID string `json:"external_id"`
	Error      string `json:"error"`
	Status     string `json:"status"`
	ActivityID int64  `json:"activity_id"`
}

// Processing reports whether the provider is still working on the file.
func (u *Upload) Processing() bool {
	return u.Status == uploadStatusProcessing
}

// Ready reports whether the upload produced an activity.
func (u *Upload) Ready() bool {
	return u.Status == uploadStatusReady && u.ActivityID != 0
}

// Failed reports whether processing ended in an error, for example a duplicate
// or a malformed file. The reason is in Error.
func (u *Upload) Failed() bool {
	return u.Status == uploadStatusError || u.Error != ""
}

// Deleted reports whether the produced activity has since been deleted.
func (u *Upload) Deleted() bool {
	return u.Status == uploadStatusDeleted
}

// Accepted file formats.
var uploadDataTypes = map[string]bool{
	"fit":    true,
	"fit.gz": true,
	"tcx":    true,
	"tcx.gz": true,
	"gpx":    true,
	"gpx.gz": true,
}

// UploadRequest describes an activity file to upload.
type UploadRequest struct {
	// File is the activity file content. Required.
	File io.Reader
	// DataType is one of fit, fit.gz, tcx, tcx.gz, gpx, gpx.gz. Required.
	DataType string
	// Filename names the file part. Defaults to "activity.<DataType>".
	Filename string

	Name        string
	Description string
	ExternalID  string
	Trainer     bool
	Commute     bool
}

// Create uploads an activity file. The call uses a longer timeout than the
// rest of the client since the whole file is transferred in one request.
// Requires activity:write.
func (s *UploadsService) Create(ctx context.Context, req UploadRequest) (*Upload, error) {
	if req.File == nil {
		return nil, invalidArg("file", "is required")
	}
	if !uploadDataTypes[req.DataType] {
		return nil, invalidArg("data type", "must be one of fit, fit.gz, tcx, tcx.gz, gpx, gpx.gz")
	}
	filename := req.Filename
	if filename == "" {
		filename = "activity." + req.DataType
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("strava: encoding upload: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("strava: reading upload file: %w", err)
	}
	fields := map[string]string{
		"data_type":   req.DataType,
		"name":        req.Name,
		"description": req.Description,
		"external_id": req.ExternalID,
	}
	if req.Trainer {
		fields["trainer"] = "1"
	}
	if req.Commute {
		fields["commute"] = "1"
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("strava: encoding upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("strava: encoding upload: %w", err)
	}

	httpReq, err := s.client.newRequest(ctx, "POST", "uploads", nil, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	data, err := s.client.roundTrip(s.client.uploadClient, httpReq)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: POST uploads", ErrEmptyResponse)
	}
	upload := new(Upload)
	if err := json.Unmarshal(data, upload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return upload, nil
}

// Get returns the current state of an upload.
func (s *UploadsService) Get(ctx context.Context, id int64) (*Upload, error) {
	if id <= 0 {
		return nil, invalidArg("upload id", "must be positive")
	}
	upload := new(Upload)
	if err := s.client.do(ctx, "GET", "uploads/"+itoa(id), nil, nil, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

// WaitOptions tunes upload polling.
type WaitOptions struct {
	// Interval between status polls. Defaults to one second.
	Interval time.Duration
	// Attempts caps the number of polls. Defaults to 30.
	Attempts int
}

// Wait polls an upload until processing finishes or the polling budget runs
// out. On exhaustion it returns the last observed state together with
// ErrUploadNotReady. A Failed or Deleted terminal state is not an error here;
// inspect the returned upload.
func (s *UploadsService) Wait(ctx context.Context, id int64, opt *WaitOptions) (*Upload, error) {
	if id <= 0 {
		return nil, invalidArg("upload id", "must be positive")
	}
	interval := time.Second
	attempts := 30
	if opt != nil {
		if opt.Interval > 0 {
			interval = opt.Interval
		}
		if opt.Attempts > 0 {
			attempts = opt.Attempts
		}
	}

	// The repeater retries any error from the closure, so API failures are
	// captured and reported instead of returned through it.
	var upload *Upload
	var callErr error
	err := repeater.NewDefault(attempts, interval).Do(ctx, func() error {
		u, err := s.Get(ctx, id)
		if err != nil {
			callErr = err
			return nil
		}
		upload = u
		if u.Processing() {
			return ErrUploadNotReady
		}
		return nil
	})
	if callErr != nil {
		return nil, callErr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return upload, fmt.Errorf("%w: waiting for upload %d", ErrTimeout, id)
	case errors.Is(err, context.Canceled):
		return upload, fmt.Errorf("strava: waiting for upload %d: %w", id, err)
	case err != nil || upload == nil:
		return upload, ErrUploadNotReady
	}
	return upload, nil
}
