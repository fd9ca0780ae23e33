// Package google reads the dataset from a Google Sheets range.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bankdash/internal/sources"
)

// DefaultRange is read when no range is configured: the whole first sheet.
const DefaultRange = "A:Z"

var _ sources.TableReader = (*Client)(nil)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// New creates a Sheets client using service account credentials from the
// environment.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, readRange string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := credentialsFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(ctx, spreadsheetID, readRange,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
}

// NewWithOptions creates a client with explicit API options, for example an
// endpoint and HTTP client in tests.
func NewWithOptions(ctx context.Context, spreadsheetID, readRange string, opts ...goption.ClientOption) (*Client, error) {
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	if strings.TrimSpace(readRange) == "" {
		readRange = DefaultRange
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

func credentialsFromEnv(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (c *Client) Describe() string {
	return fmt.Sprintf("sheets:%s!%s", c.spreadsheetID, c.readRange)
}

// ReadTable fetches the range with formatted values, so dates and amounts
// arrive as the sheet displays them.
func (c *Client) ReadTable(ctx context.Context) ([]string, [][]string, error) {
	if c.svc == nil {
		return nil, nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read range %s: %w", c.readRange, err)
	}
	header, rows := tableFromValues(resp.Values)
	if len(header) == 0 {
		return nil, nil, fmt.Errorf("range %s is empty", c.readRange)
	}
	slog.InfoContext(ctx, "Read dataset from Google Sheets",
		"range", c.readRange,
		"rows", len(rows))
	return header, rows, nil
}
