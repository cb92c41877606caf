package toolup

import (
	"fmt"
	"io"
	"net/http"
	"os"
)

// DownloadFile streams the content at url to dest, overwriting any existing
// file. The file is created executable so that downloaded bootstrappers can
// be run directly. Any network failure, non-success status or write failure
// is returned as an error; there are no retries.
func DownloadFile(url, dest string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: HTTP %d", url, resp.StatusCode)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("save download: %w", err)
	}

	return nil
}

// StepDownload creates a Step that downloads url to dest.
func StepDownload(name, url, dest string) Step {
	return Step{
		Name: fmt.Sprintf("Download %s", name),
		Action: func() StepResult {
			if err := DownloadFile(url, dest); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}
