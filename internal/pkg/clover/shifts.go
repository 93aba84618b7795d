package clover

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrMalformedPunch marks a shift element that could not be decoded
var ErrMalformedPunch = errors.New("malformed clover shift element")

const maxErrorBody = 4 << 10

// Punch is one clock-in/clock-out pair as returned by Clover. Times are epoch
// milliseconds; override times are set when a manager corrected the punch.
type Punch struct {
	ID              string `json:"id"`
	InTime          *int64 `json:"inTime"`
	OutTime         *int64 `json:"outTime"`
	OverrideInTime  *int64 `json:"overrideInTime"`
	OverrideOutTime *int64 `json:"overrideOutTime"`
}

// EffectiveIn returns the override in-time when present, else the nominal in-time
func (p Punch) EffectiveIn() *int64 {
	if p.OverrideInTime != nil {
		return p.OverrideInTime
	}
	return p.InTime
}

// EffectiveOut returns the override out-time when present, else the nominal out-time
func (p Punch) EffectiveOut() *int64 {
	if p.OverrideOutTime != nil {
		return p.OverrideOutTime
	}
	return p.OutTime
}

// FetchResult holds the decoded punches and the number of elements that had to be dropped
type FetchResult struct {
	Punches   []Punch
	Malformed int
}

type shiftsResponse struct {
	Elements []json.RawMessage `json:"elements"`
}

// FetchShifts returns the punches of one Clover employee whose in/override
// time falls strictly between startMillis and endMillis.
//
// Transport errors, 429 and 5xx answers are retried with exponential backoff;
// any other non-2xx status is returned immediately as *FetchError.
func (c *Client) FetchShifts(ctx context.Context, cloverEmployeeID string, startMillis, endMillis int64) (FetchResult, error) {
	u, err := url.Parse(fmt.Sprintf("%s/%s/employees/%s/shifts",
		c.baseURL, url.PathEscape(c.merchantID), url.PathEscape(cloverEmployeeID)))
	if err != nil {
		return FetchResult{}, fmt.Errorf("build clover shifts URL: %w", err)
	}

	q := u.Query()
	q.Set("expand", "employee")
	q.Set("limit", strconv.Itoa(c.pageLimit))
	q.Add("filter", "has_in_time=true")
	q.Add("filter", fmt.Sprintf("in_and_override_time>%d", startMillis))
	q.Add("filter", fmt.Sprintf("in_and_override_time<%d", endMillis))
	u.RawQuery = q.Encode()

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		b, err := c.get(ctx, u.String())
		if err == nil {
			body = b
			return nil
		}

		var fe *FetchError
		if errors.As(err, &fe) && !fe.Temporary() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		slog.Warn("Clover shifts request failed",
			"clover_employee_id", cloverEmployeeID,
			"attempt", attempt,
			"max_retries", c.maxRetries,
			"error", err,
		)
		return err
	}

	if err := backoff.Retry(op, c.newBackOff(ctx)); err != nil {
		return FetchResult{}, err
	}

	var resp shiftsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return FetchResult{}, fmt.Errorf("decode clover shifts response: %w", err)
	}

	result := FetchResult{Punches: make([]Punch, 0, len(resp.Elements))}
	for _, raw := range resp.Elements {
		p, err := DecodePunch(raw)
		if err != nil {
			slog.Warn("Skipping malformed Clover shift", "clover_employee_id", cloverEmployeeID, "error", err)
			result.Malformed++
			continue
		}
		result.Punches = append(result.Punches, p)
	}

	if len(resp.Elements) >= c.pageLimit {
		slog.Warn("Clover shifts response reached the page limit; results may be truncated",
			"clover_employee_id", cloverEmployeeID,
			"limit", c.pageLimit,
		)
	}

	return result, nil
}

// DecodePunch parses one shift element and rejects elements without an id
func DecodePunch(raw json.RawMessage) (Punch, error) {
	var p Punch
	if err := json.Unmarshal(raw, &p); err != nil {
		return Punch{}, fmt.Errorf("%w: %v", ErrMalformedPunch, err)
	}
	if strings.TrimSpace(p.ID) == "" {
		return Punch{}, fmt.Errorf("%w: missing id", ErrMalformedPunch)
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.retryWait > 0 {
		b.InitialInterval = c.retryWait
	}
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)
}
