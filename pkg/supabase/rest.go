package supabase

import (
	"context"
	"net/url"
	"strings"
)

// Query is a PostgREST request against one table.
type Query struct {
	client *Client
	table  string
	token  string
	params url.Values
}

func (c *Client) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		params: url.Values{},
	}
}

// WithToken runs the query as the user owning accessToken so row level
// security applies to them.
func (q *Query) WithToken(accessToken string) *Query {
	q.token = accessToken
	return q
}

func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// ILike adds a case-insensitive substring match. LIKE metacharacters in
// substring match literally. PostgREST turns every * into %, so a literal *
// is sent as the single character wildcard _.
func (q *Query) ILike(column, substring string) *Query {
	q.params.Add(column, "ilike.*"+likeEscaper.Replace(substring)+"*")
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, `_`)

func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Add("order", column+"."+dir)
	return q
}

// Params returns the query string PostgREST will receive.
func (q *Query) Params() url.Values {
	return q.params
}

func (q *Query) path() string {
	return "/rest/v1/" + strings.TrimPrefix(q.table, "/")
}

// Execute runs a select and decodes the rows into result.
func (q *Query) Execute(ctx context.Context, result any) error {
	if q.params.Get("select") == "" {
		q.params.Set("select", "*")
	}
	resp, err := q.client.request(q.token).
		SetContext(ctx).
		SetQueryParamsFromValues(q.params).
		SetResult(result).
		Get(q.path())
	return checkResponse(resp, err)
}

// Insert stores row and decodes the stored representation into result.
func (q *Query) Insert(ctx context.Context, row any, result any) error {
	req := q.client.request(q.token).
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(row)
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Post(q.path())
	return checkResponse(resp, err)
}
