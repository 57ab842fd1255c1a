package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"chileadicto/internal/adapters/observability"
)

// Row is one outgoing record. Rows are maps rather than structs so the
// schema-drift guard can prune columns uniformly across a bulk write.
type Row = map[string]any

var (
	ErrNoRows   = errors.New("postgrest: no rows")
	ErrConflict = errors.New("postgrest: unique violation")
)

// UnknownColumnError is the drift condition: the write mentioned a
// column the deployed schema does not have.
type UnknownColumnError struct{ Column string }

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("postgrest: unknown column %q", e.Column)
}

// StatusError is any other store rejection, kept with enough detail for
// operator diagnosis.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("postgrest: status %d: %s", e.Status, e.Message)
}

type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("store base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// From starts a request against one table.
func (c *Client) From(table string) *Request {
	return &Request{c: c, table: table, params: url.Values{}}
}

type Request struct {
	c      *Client
	table  string
	params url.Values
}

func (r *Request) Select(columns string) *Request {
	r.params.Set("select", columns)
	return r
}

func (r *Request) Eq(column string, v any) *Request {
	r.params.Add(column, fmt.Sprintf("eq.%v", v))
	return r
}

func (r *Request) In(column string, vals ...any) *Request {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%v", v)
	}
	r.params.Add(column, "in.("+strings.Join(parts, ",")+")")
	return r
}

func (r *Request) Order(column string, ascending bool) *Request {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	r.params.Add("order", column+"."+dir)
	return r
}

func (r *Request) Limit(n int) *Request {
	r.params.Set("limit", fmt.Sprintf("%d", n))
	return r
}

// Get runs the select and decodes the JSON array into out.
func (r *Request) Get(ctx context.Context, out any) error {
	return r.c.do(ctx, http.MethodGet, r.url(), nil, out, "")
}

// Insert posts rows as a uniform bulk insert, drift-guarded.
func (r *Request) Insert(ctx context.Context, rows []Row) error {
	return r.c.writeGuarded(ctx, r.table, rows, func(rs []Row) error {
		return r.c.do(ctx, http.MethodPost, r.url(), rs, nil, "return=minimal")
	})
}

// InsertReturning inserts and decodes the representation (for
// store-assigned ids), drift-guarded.
func (r *Request) InsertReturning(ctx context.Context, rows []Row, out any) error {
	return r.c.writeGuarded(ctx, r.table, rows, func(rs []Row) error {
		return r.c.do(ctx, http.MethodPost, r.url(), rs, out, "return=representation")
	})
}

// Upsert bulk-upserts keyed by the declared conflict column set,
// drift-guarded.
func (r *Request) Upsert(ctx context.Context, rows []Row, onConflict string) error {
	r.params.Set("on_conflict", onConflict)
	return r.c.writeGuarded(ctx, r.table, rows, func(rs []Row) error {
		return r.c.do(ctx, http.MethodPost, r.url(), rs, nil,
			"resolution=merge-duplicates,return=minimal")
	})
}

// Patch updates the filtered rows with the given column values,
// drift-guarded.
func (r *Request) Patch(ctx context.Context, row Row) error {
	return r.c.writeGuarded(ctx, r.table, []Row{row}, func(rs []Row) error {
		return r.c.do(ctx, http.MethodPatch, r.url(), rs[0], nil, "return=minimal")
	})
}

// Delete removes the filtered rows.
func (r *Request) Delete(ctx context.Context) error {
	return r.c.do(ctx, http.MethodDelete, r.url(), nil, nil, "return=minimal")
}

func (r *Request) url() string {
	u := r.c.base + "/" + r.table
	if len(r.params) > 0 {
		u += "?" + r.params.Encode()
	}
	return u
}

// do performs one store round-trip. Per design only the drift guard
// retries anything; transient store failures propagate to the caller.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any, prefer string) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal rows: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return err
	}
	if c.key != "" {
		req.Header.Set("apikey", c.key)
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()

	table := req.URL.Path
	observability.ObserveExternal("store", table, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	return classifyError(resp.StatusCode, raw)
}

// PostgREST reports a missing column as PGRST204 with the column name
// quoted in the message.
var unknownColumnRe = regexp.MustCompile(`[Cc]ould not find the '([^']+)' column`)

func classifyError(status int, body []byte) error {
	code := gjson.GetBytes(body, "code").String()
	msg := gjson.GetBytes(body, "message").String()
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}

	if m := unknownColumnRe.FindStringSubmatch(msg); m != nil || code == "PGRST204" {
		col := ""
		if m != nil {
			col = m[1]
		}
		if col != "" {
			return &UnknownColumnError{Column: col}
		}
	}
	if status == http.StatusConflict || code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	}
	if status == http.StatusNotFound && code == "" {
		return ErrNoRows
	}
	return &StatusError{Status: status, Message: msg}
}
