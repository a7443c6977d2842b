package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/ralt/ventus-clone/internal/models"
	"github.com/ralt/ventus-clone/internal/utils"
	"github.com/ralt/ventus-clone/internal/verify"
	"github.com/sirupsen/logrus"
)

// maxSignatureSize bounds how much of a signature URL is read into memory
const maxSignatureSize = 1 << 20

// Fetcher downloads archives to local files
type Fetcher interface {
	// Fetch downloads archive to dest and verifies it when the archive
	// carries a digest or a signature URL
	Fetch(ctx context.Context, archive models.Archive, dest string) error
}

// HTTPFetcher implements Fetcher over HTTP(S) with transport level retries
type HTTPFetcher struct {
	client   *retryablehttp.Client
	verifier verify.Verifier
}

// NewHTTPFetcher creates a fetcher. verifier may be nil, in which case
// archives with a signature URL are rejected.
func NewHTTPFetcher(retries int, verifier verify.Verifier) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.Logger = &leveledLogger{entry: logrus.WithField("component", "fetcher")}

	return &HTTPFetcher{
		client:   client,
		verifier: verifier,
	}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, archive models.Archive, dest string) error {
	if archive.URL == "" {
		return fmt.Errorf("archive has no URL")
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	logrus.Infof("Downloading %s", archive.URL)
	n, err := f.download(ctx, archive.URL, dest)
	if err != nil {
		os.Remove(dest)
		return err
	}
	logrus.Infof("Downloaded %s to %s", humanize.Bytes(uint64(n)), dest)

	if err := f.verify(ctx, archive, dest); err != nil {
		os.Remove(dest)
		return err
	}

	return nil
}

func (f *HTTPFetcher) download(ctx context.Context, url, dest string) (int64, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return n, out.Close()
}

func (f *HTTPFetcher) verify(ctx context.Context, archive models.Archive, path string) error {
	if archive.SHA256 != "" {
		if err := utils.VerifySHA256(path, archive.SHA256); err != nil {
			return models.NewError(models.ErrVerify, "", err)
		}
		logrus.Debugf("Checksum of %s verified", path)
	}

	if archive.SignatureURL == "" {
		return nil
	}
	if f.verifier == nil {
		return models.NewError(models.ErrVerify, "",
			fmt.Errorf("%s is signed but no keyring was configured", archive.URL))
	}

	resp, err := f.get(ctx, archive.SignatureURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	sig, err := io.ReadAll(io.LimitReader(resp.Body, maxSignatureSize))
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}

	signed, err := os.Open(path)
	if err != nil {
		return err
	}
	defer signed.Close()

	signer, err := f.verifier.VerifyDetached(signed, sig)
	if err != nil {
		return models.NewError(models.ErrVerify, "", err)
	}
	logrus.Infof("Signature of %s verified (signed by %s)", filepath.Base(path), signer)
	return nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}
	return resp, nil
}
