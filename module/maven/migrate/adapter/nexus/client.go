package nexus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	httputil "github.com/harness/nexus-migrate/module/maven/migrate/http"
	"github.com/harness/nexus-migrate/module/maven/migrate/http/auth"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const restPath = "service/rest/v1"

// newClient constructs a nexus client
func newClient(reg *types.RegistryConfig, logger zerolog.Logger) *client {
	return &client{
		client: httputil.NewClient(
			&http.Client{
				Transport: httputil.GetHTTPTransport(httputil.WithInsecure(reg.Insecure)),
			},
			reg.Retries,
			logger,
			auth.NewAuthorizer(reg.Credentials),
		),
		url:    strings.TrimSuffix(reg.Endpoint, "/"),
		logger: logger,
	}
}

type client struct {
	client *httputil.Client
	url    string
	logger zerolog.Logger
}

func (c *client) api(elem ...string) string {
	escaped := make([]string, 0, len(elem))
	for _, e := range elem {
		escaped = append(escaped, url.PathEscape(e))
	}
	return strings.Join(append([]string{c.url, restPath}, escaped...), "/")
}

// getRepositories retrieves all repositories visible to the user
func (c *client) getRepositories(ctx context.Context) ([]types.RepositoryInfo, error) {
	var repositories []types.RepositoryInfo
	if err := c.client.Get(ctx, c.api("repositories"), &repositories); err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	return repositories, nil
}

// getRepositoryDetails retrieves the full configuration of a repository.
// Nexus names the maven2 format "maven" on this endpoint.
func (c *client) getRepositoryDetails(ctx context.Context, info types.RepositoryInfo) (*types.RepositoryDetail, error) {
	format := info.Format
	if format == types.FormatMaven2 {
		format = "maven"
	}

	var detail types.RepositoryDetail
	err := c.client.Get(ctx, c.api("repositories", format, info.Type, info.Name), &detail)
	if err != nil {
		var infoErr *types.InfoRetrievalError
		if errors.As(err, &infoErr) && infoErr.Status == http.StatusNotFound {
			return nil, &types.InfoRetrievalError{
				Status:  infoErr.Status,
				URL:     infoErr.URL,
				Message: types.PermissionHint(info.Format, info.Name),
			}
		}
		return nil, err
	}
	return &detail, nil
}

// listComponents fetches one page of the component listing
func (c *client) listComponents(ctx context.Context, repository, continuationToken string) (*types.ComponentPage, error) {
	q := url.Values{}
	q.Set("repository", repository)
	if continuationToken != "" {
		q.Set("continuationToken", continuationToken)
	}

	var page types.ComponentPage
	if err := c.client.Get(ctx, c.api("components")+"?"+q.Encode(), &page); err != nil {
		return nil, fmt.Errorf("failed to list components of %s: %w", repository, err)
	}
	return &page, nil
}

func (c *client) getComponent(ctx context.Context, id string) (*types.ComponentRecord, error) {
	var component types.ComponentRecord
	if err := c.client.Get(ctx, c.api("components", id), &component); err != nil {
		return nil, fmt.Errorf("failed to get component %s: %w", id, err)
	}
	return &component, nil
}

func (c *client) getAsset(ctx context.Context, id string) (*types.AssetRecord, error) {
	var asset types.AssetRecord
	if err := c.client.Get(ctx, c.api("assets", id), &asset); err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	return &asset, nil
}

// openAsset streams an asset by its download URL
func (c *client) openAsset(ctx context.Context, downloadURL string) (io.ReadCloser, error) {
	body, err := c.client.Open(ctx, downloadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", downloadURL, err)
	}
	return body, nil
}

// uploadComponent posts a multipart form to the components endpoint. The body
// is produced on the fly so assets are never held in memory, and rebuilt for
// every attempt when retries are enabled.
func (c *client) uploadComponent(ctx context.Context, repository string, form *types.UploadForm) error {
	target := c.api("components") + "?" + url.Values{"repository": {repository}}.Encode()
	boundary := multipart.NewWriter(io.Discard).Boundary()

	body := retryablehttp.ReaderFunc(func() (io.Reader, error) {
		pr, pw := io.Pipe()
		go func() {
			writer := multipart.NewWriter(pw)
			if err := writer.SetBoundary(boundary); err != nil {
				pw.CloseWithError(err)
				return
			}
			if err := writeParts(writer, form); err != nil {
				pw.CloseWithError(err)
				return
			}
			pw.CloseWithError(writer.Close())
		}()
		return pr, nil
	})

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		params, _ := json.Marshal(form.Fields())
		c.logger.Error().
			Str("url", target).
			RawJSON("params", params).
			Str("body", string(data)).
			Int("status", resp.StatusCode).
			Msg("Component upload failed")
		return &types.UploadError{Status: resp.StatusCode, Repository: repository, Body: string(data)}
	}
	return nil
}

func writeParts(writer *multipart.Writer, form *types.UploadForm) error {
	for _, part := range form.Parts {
		if !part.IsFile() {
			if err := writer.WriteField(part.Name, part.Value); err != nil {
				return err
			}
			continue
		}
		if err := writeFile(writer, part); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(writer *multipart.Writer, part types.FormPart) error {
	src, err := part.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", part.FileName, err)
	}
	defer src.Close()

	dst, err := writer.CreateFormFile(part.Name, part.FileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to stream %s: %w", part.FileName, err)
	}
	return nil
}
