package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/warp/paycalc/paytable"
)

// maxDocumentSize bounds the body read from a remote table.
const maxDocumentSize = 1 << 20

// HTTP fetches tables from <BaseURL>/tvoed_<year>.json.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTP creates an HTTP source with a client using timeout.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// DocumentName is the file name of the document for year.
func DocumentName(year paytable.YearKey, ext string) string {
	return fmt.Sprintf("tvoed_%s%s", year, ext)
}

func (h *HTTP) Load(ctx context.Context, year paytable.YearKey) (*paytable.PayTable, error) {
	url := h.BaseURL + "/" + DocumentName(year, ".json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &paytable.LoadError{Year: year, Reason: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &paytable.LoadError{Year: year, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &paytable.LoadError{
			Year:       year,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &paytable.LoadError{Year: year, Reason: "read body", Err: err}
	}
	table, err := paytable.ParseDocument(year, body)
	if err != nil {
		return nil, paytable.AsLoadError(year, err)
	}
	return table, nil
}
