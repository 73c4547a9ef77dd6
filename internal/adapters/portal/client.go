// Package portal fetches published result sheets from the university
// results portal. The portal serves one PDF report per USN; this client
// walks a batch of roll numbers, extracts each student's name and SGPA,
// and hands immutable records to the analysis pipeline.
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/pkg/logger"
	"github.com/tejasvp/resultboard/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL              = "http://14.99.184.178:8080/birt/run"
	defaultRequestTimeout       = 15 * time.Second
	defaultDelay                = time.Second
	defaultMaxConsecutiveMisses = 20
	defaultMaxRoll              = 500

	reportName   = "mydsi/exam/Exam_Result_Sheet_dsce.rptdesign"
	reportFormat = "pdf"
	userAgent    = "Mozilla/5.0"
)

// Fetcher is the collaborator contract the analysis workers depend on.
type Fetcher interface {
	// FetchBatch walks the batch for dept/year and returns every published
	// record plus the probed input range.
	FetchBatch(ctx context.Context, dept, year string) ([]model.StudentRecord, model.BatchInput, error)

	// ResultURL builds the outbound deep-link for a USN.
	ResultURL(usn string) string
}

// Client implements Fetcher against the BIRT report endpoint.
type Client struct {
	baseURL              string
	http                 *http.Client
	requestTimeout       time.Duration
	delay                time.Duration
	maxConsecutiveMisses int
	maxRoll              int

	logger logger.Logger
}

// NewClient creates a portal client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:              defaultBaseURL,
		http:                 &http.Client{},
		requestTimeout:       defaultRequestTimeout,
		delay:                defaultDelay,
		maxConsecutiveMisses: defaultMaxConsecutiveMisses,
		maxRoll:              defaultMaxRoll,
		logger:               logger.Get().Named("portal"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// USN builds the registration number for one roll slot, e.g. 1DS23CG042.
func USN(dept, year string, roll int) string {
	return fmt.Sprintf("1DS%s%s%03d", year, strings.ToUpper(dept), roll)
}

// ResultURL interpolates usn into the portal's report URL template. It is a
// pure function of the identifier and carries no other logic.
func (c *Client) ResultURL(usn string) string {
	q := url.Values{}
	q.Set("__report", reportName)
	q.Set("__format", reportFormat)
	q.Set("USN", usn)
	return c.baseURL + "?" + q.Encode()
}

// FetchRecord fetches and parses the result sheet for a single USN.
// Returns ErrNoResult when the portal has no published sheet for it.
func (c *Client) FetchRecord(ctx context.Context, usn string) (model.StudentRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordPortalFetchLatency(float64(time.Since(start).Milliseconds()))
	}()

	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.ResultURL(usn), nil)
	if err != nil {
		return model.StudentRecord{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordPortalFetchError()
		return model.StudentRecord{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	// A miss comes back as a non-200 or as an HTML error page.
	if resp.StatusCode != http.StatusOK ||
		!strings.Contains(resp.Header.Get("Content-Type"), "application/pdf") {
		return model.StudentRecord{}, fmt.Errorf("%w: %s", ErrNoResult, usn)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordPortalFetchError()
		return model.StudentRecord{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	record, err := ExtractRecord(usn, body)
	if err != nil {
		return model.StudentRecord{}, err
	}
	metrics.RecordStudentFetched()
	return record, nil
}

// FetchBatch walks roll numbers from 1 upward until a run of consecutive
// misses signals the end of the batch, or the roll cap is reached. Records
// whose sheet exists but carries no parseable SGPA are skipped, matching
// the portal's own incomplete publications.
func (c *Client) FetchBatch(ctx context.Context, dept, year string) ([]model.StudentRecord, model.BatchInput, error) {
	input := model.BatchInput{Dept: strings.ToUpper(dept), Year: year}

	var records []model.StudentRecord
	var rolls []int
	consecutiveMisses := 0
	checked := 0

walk:
	for roll := 1; roll <= c.maxRoll; roll++ {
		if err := ctx.Err(); err != nil {
			return nil, input, fmt.Errorf("batch walk cancelled: %w", err)
		}

		checked = roll
		usn := USN(dept, year, roll)
		record, err := c.FetchRecord(ctx, usn)
		switch {
		case err == nil && record.Comparable():
			records = append(records, record)
			rolls = append(rolls, roll)
			consecutiveMisses = 0
		default:
			c.logger.Debug(ctx, "roll not published", logger.String("usn", usn))
			consecutiveMisses++
			if consecutiveMisses >= c.maxConsecutiveMisses {
				break walk
			}
		}

		if c.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, input, fmt.Errorf("batch walk cancelled: %w", ctx.Err())
			case <-time.After(c.delay):
			}
		}
	}

	input.TotalRollsChecked = checked
	input.RollRange = "N/A"
	if len(rolls) > 0 {
		input.RollRange = fmt.Sprintf("%03d - %03d", rolls[0], rolls[len(rolls)-1])
	}

	c.logger.Info(ctx, "batch walk finished",
		logger.String("dept", input.Dept),
		logger.String("year", input.Year),
		logger.Int("records", len(records)),
		logger.Int("rollsChecked", input.TotalRollsChecked),
	)
	return records, input, nil
}
