package mediawiki

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// newTestClient points a client at an httptest server playing api.php.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL+"/api.php", false)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestAllPages(t *testing.T) {
	var gotFrom, gotLimit string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("list") != "allpages" {
			t.Errorf("unexpected query parameters: %v", q)
		}
		gotFrom = q.Get("apfrom")
		gotLimit = q.Get("aplimit")
		fmt.Fprint(w, `{"query":{"allpages":[{"pageid":1,"ns":0,"title":"Alpha"},{"pageid":2,"ns":0,"title":"Beta"}]}}`)
	})

	titles, err := client.AllPages("Alpha", 25)
	if err != nil {
		t.Fatalf("AllPages() error = %v", err)
	}

	if want := []string{"Alpha", "Beta"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("AllPages() = %v, want %v", titles, want)
	}
	if gotFrom != "Alpha" {
		t.Errorf("apfrom = %q, want %q", gotFrom, "Alpha")
	}
	if gotLimit != "25" {
		t.Errorf("aplimit = %q, want %q", gotLimit, "25")
	}
}

func TestAllPages_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"allpages":[]}}`)
	})

	titles, err := client.AllPages("", 25)
	if err != nil {
		t.Fatalf("AllPages() error = %v", err)
	}
	if len(titles) != 0 {
		t.Errorf("AllPages() = %v, want empty", titles)
	}
}

func TestPageText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"pages":[{"title":"Alpha","revisions":[{"slots":{"main":{"content":"line one\nline two"}}}]}]}}`)
	})

	text, err := client.PageText("Alpha")
	if err != nil {
		t.Fatalf("PageText() error = %v", err)
	}
	if want := "line one\nline two"; text != want {
		t.Errorf("PageText() = %q, want %q", text, want)
	}

	lines, err := client.PageLines("Alpha")
	if err != nil {
		t.Fatalf("PageLines() error = %v", err)
	}
	if want := []string{"line one", "line two"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("PageLines() = %v, want %v", lines, want)
	}
}

func TestPageText_MissingPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"pages":[{"title":"Nope","missing":true}]}}`)
	})

	text, err := client.PageText("Nope")
	if err != nil {
		t.Fatalf("PageText() error = %v", err)
	}
	if text != "" {
		t.Errorf("PageText() = %q, want empty text for missing page", text)
	}
}

func TestSavePage(t *testing.T) {
	var savedTitle, savedText, savedSummary, savedToken string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Token fetch.
			fmt.Fprint(w, `{"query":{"tokens":{"csrftoken":"abc+\\"}}}`)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		savedTitle = r.PostForm.Get("title")
		savedText = r.PostForm.Get("text")
		savedSummary = r.PostForm.Get("summary")
		savedToken = r.PostForm.Get("token")
		fmt.Fprint(w, `{"edit":{"result":"Success"}}`)
	})

	err := client.SavePage("Alpha", "new text", "Inserted the DOE content needed template.")
	if err != nil {
		t.Fatalf("SavePage() error = %v", err)
	}

	if savedTitle != "Alpha" {
		t.Errorf("saved title = %q, want %q", savedTitle, "Alpha")
	}
	if savedText != "new text" {
		t.Errorf("saved text = %q, want %q", savedText, "new text")
	}
	if savedSummary != "Inserted the DOE content needed template." {
		t.Errorf("saved summary = %q, want fixed edit comment", savedSummary)
	}
	if savedToken != `abc+\` {
		t.Errorf("saved token = %q, want %q", savedToken, `abc+\`)
	}
}

func TestSavePage_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `{"query":{"tokens":{"csrftoken":"abc"}}}`)
			return
		}
		fmt.Fprint(w, `{"edit":{"result":"Failure"}}`)
	})

	if err := client.SavePage("Alpha", "text", "comment"); err == nil {
		t.Error("SavePage() error = nil, want error on non-Success edit result")
	}
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `{"query":{"tokens":{"logintoken":"tok"}}}`)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("lgname") != "DOEBot" || r.PostForm.Get("lgtoken") != "tok" {
			fmt.Fprint(w, `{"login":{"result":"Failed","reason":"bad credentials"}}`)
			return
		}
		fmt.Fprint(w, `{"login":{"result":"Success"}}`)
	})

	if err := client.Login("DOEBot", "secret"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
}

func TestLogin_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `{"query":{"tokens":{"logintoken":"tok"}}}`)
			return
		}
		fmt.Fprint(w, `{"login":{"result":"Failed","reason":"Incorrect password"}}`)
	})

	if err := client.Login("DOEBot", "wrong"); err == nil {
		t.Error("Login() error = nil, want error on failed login")
	}
}

func TestParseHTML(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "parse" || q.Get("page") != "Alpha" {
			t.Errorf("unexpected query parameters: %v", q)
		}
		fmt.Fprint(w, `{"parse":{"title":"Alpha","text":"<div><h2>Topic at DOE</h2></div>"}}`)
	})

	html, err := client.ParseHTML("Alpha")
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	if want := "<div><h2>Topic at DOE</h2></div>"; html != want {
		t.Errorf("ParseHTML() = %q, want %q", html, want)
	}
}

func TestAPIErrorPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"code":"readapidenied","info":"You need read permission"}}`)
	})

	if _, err := client.AllPages("", 25); err == nil {
		t.Error("AllPages() error = nil, want API error to propagate")
	}
}

func TestBadStatusPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.PageText("Alpha"); err == nil {
		t.Error("PageText() error = nil, want error on HTTP 502")
	}
}
