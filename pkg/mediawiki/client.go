// Package mediawiki is a minimal client for the MediaWiki action API,
// covering just the calls the bot needs: listing page titles, reading and
// saving page text, bot-password login, and fetching rendered HTML.
package mediawiki

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
)

// Client talks to one wiki's api.php endpoint. Session cookies from login
// are kept in the underlying jar for the life of the client.
type Client struct {
	apiURL string
	client *http.Client
}

// NewClient creates a client for the given api.php URL. insecureSkipVerify
// disables TLS certificate checks for intranet wikis with self-signed certs.
func NewClient(apiURL string, insecureSkipVerify bool) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	httpClient := &http.Client{Jar: jar}
	if insecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{apiURL: apiURL, client: httpClient}, nil
}

// apiResponse is the JSON envelope shared by all action API calls
// (formatversion=2).
type apiResponse struct {
	Error *apiError    `json:"error"`
	Query *queryResult `json:"query"`
	Parse *parseResult `json:"parse"`
	Edit  *editResult  `json:"edit"`
	Login *loginResult `json:"login"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type queryResult struct {
	AllPages []pageRef         `json:"allpages"`
	Pages    []pageRevisions   `json:"pages"`
	Tokens   map[string]string `json:"tokens"`
}

type pageRef struct {
	Title string `json:"title"`
}

type pageRevisions struct {
	Title     string     `json:"title"`
	Missing   bool       `json:"missing"`
	Revisions []revision `json:"revisions"`
}

type revision struct {
	Slots map[string]slot `json:"slots"`
}

type slot struct {
	Content string `json:"content"`
}

type parseResult struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type editResult struct {
	Result string `json:"result"`
}

type loginResult struct {
	Result string `json:"result"`
	Reason string `json:"reason"`
}

// get performs a GET query against the API and decodes the envelope.
func (c *Client) get(params url.Values) (*apiResponse, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	resp, err := c.client.Get(c.apiURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	return decodeResponse(resp)
}

// postForm performs a POST (token-protected writes) and decodes the envelope.
func (c *Client) postForm(params url.Values) (*apiResponse, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	resp, err := c.client.PostForm(c.apiURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (*apiResponse, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to query API, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &apiResponse{}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("API error %s: %s", out.Error.Code, out.Error.Info)
	}
	return out, nil
}

// AllPages returns up to limit page titles lexicographically at-or-after
// from, in the order the wiki lists them. The result is a materialized
// slice, safe to both measure and iterate.
func (c *Client) AllPages(from string, limit int) ([]string, error) {
	params := url.Values{
		"action":  {"query"},
		"list":    {"allpages"},
		"apfrom":  {from},
		"aplimit": {strconv.Itoa(limit)},
	}

	out, err := c.get(params)
	if err != nil {
		return nil, err
	}
	if out.Query == nil {
		return nil, fmt.Errorf("allpages response missing query result")
	}

	titles := make([]string, 0, len(out.Query.AllPages))
	for _, p := range out.Query.AllPages {
		titles = append(titles, p.Title)
	}
	return titles, nil
}

// PageText returns the current wikitext of a page. A page that does not
// exist reads as empty text, not an error.
func (c *Client) PageText(title string) (string, error) {
	params := url.Values{
		"action":  {"query"},
		"prop":    {"revisions"},
		"rvprop":  {"content"},
		"rvslots": {"main"},
		"titles":  {title},
	}

	out, err := c.get(params)
	if err != nil {
		return "", err
	}
	if out.Query == nil || len(out.Query.Pages) == 0 {
		return "", fmt.Errorf("revisions response missing page %q", title)
	}

	page := out.Query.Pages[0]
	if page.Missing || len(page.Revisions) == 0 {
		return "", nil
	}
	return page.Revisions[0].Slots["main"].Content, nil
}

// PageLines returns the page text split into lines.
func (c *Client) PageLines(title string) ([]string, error) {
	text, err := c.PageText(title)
	if err != nil {
		return nil, err
	}
	return strings.Split(text, "\n"), nil
}

// SavePage replaces the full text of a page with an edit comment.
func (c *Client) SavePage(title, text, comment string) error {
	token, err := c.token("csrf")
	if err != nil {
		return err
	}

	params := url.Values{
		"action":  {"edit"},
		"title":   {title},
		"text":    {text},
		"summary": {comment},
		"bot":     {"1"},
		"token":   {token},
	}

	out, err := c.postForm(params)
	if err != nil {
		return err
	}
	if out.Edit == nil || out.Edit.Result != "Success" {
		return fmt.Errorf("failed to save page %q: edit result %+v", title, out.Edit)
	}
	return nil
}

// Login authenticates with bot-password credentials. The session cookie is
// kept on the client for subsequent edits.
func (c *Client) Login(username, password string) error {
	token, err := c.token("login")
	if err != nil {
		return err
	}

	params := url.Values{
		"action":     {"login"},
		"lgname":     {username},
		"lgpassword": {password},
		"lgtoken":    {token},
	}

	out, err := c.postForm(params)
	if err != nil {
		return err
	}
	if out.Login == nil || out.Login.Result != "Success" {
		if out.Login != nil && out.Login.Reason != "" {
			return fmt.Errorf("failed to log in: %s (%s)", out.Login.Result, out.Login.Reason)
		}
		return fmt.Errorf("failed to log in: %+v", out.Login)
	}
	return nil
}

// ParseHTML returns the wiki-rendered HTML of a page.
func (c *Client) ParseHTML(title string) (string, error) {
	params := url.Values{
		"action": {"parse"},
		"page":   {title},
		"prop":   {"text"},
	}

	out, err := c.get(params)
	if err != nil {
		return "", err
	}
	if out.Parse == nil {
		return "", fmt.Errorf("parse response missing result for %q", title)
	}
	return out.Parse.Text, nil
}

// token fetches a fresh token of the given type ("csrf" or "login").
func (c *Client) token(kind string) (string, error) {
	params := url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {kind},
	}

	out, err := c.get(params)
	if err != nil {
		return "", err
	}
	if out.Query == nil {
		return "", fmt.Errorf("token response missing query result")
	}

	token, ok := out.Query.Tokens[kind+"token"]
	if !ok || token == "" {
		return "", fmt.Errorf("API returned no %s token", kind)
	}
	return token, nil
}
