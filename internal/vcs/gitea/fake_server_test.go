package gitea

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/macmacal/jaypore-ci/internal/models"
)

const (
	testOwner  = "fake_owner"
	testRepo   = "fake_repo"
	testBranch = "feature/x"
	testSHA    = "0123456789abcdef0123456789abcdef01234567"
	testToken  = "fake_gitea_token"
)

type stubResponse struct {
	status int
	body   string
}

type recordedCall struct {
	Method string
	Path   string
	Auth   string
	Type   string
	JSON   map[string]interface{}
}

// fakeGitea is an in-memory stand-in for the Gitea pull request and status API.
type fakeGitea struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	calls   []recordedCall
	creates []stubResponse

	prBody       string
	getStatus    int
	patchStatus  int
	statusStatus int
}

func newFakeGitea(t *testing.T, creates ...stubResponse) *fakeGitea {
	f := &fakeGitea{
		t:            t,
		creates:      creates,
		prBody:       AutoCreatedBody,
		getStatus:    http.StatusOK,
		patchStatus:  http.StatusCreated,
		statusStatus: http.StatusCreated,
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGitea) remoteContext() models.RemoteContext {
	return models.RemoteContext{
		RootURL: f.server.URL,
		APIURL:  f.server.URL + "/api/v1",
		Owner:   testOwner,
		Repo:    testRepo,
		Branch:  testBranch,
		SHA:     testSHA,
		Token:   testToken,
		Timeout: 5 * time.Second,
	}
}

func (f *fakeGitea) handle(w http.ResponseWriter, r *http.Request) {
	call := recordedCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Type:   r.Header.Get("Content-Type"),
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		if err := json.Unmarshal(data, &call.JSON); err != nil {
			f.t.Errorf("request body is not JSON: %s", data)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)

	prefix := fmt.Sprintf("/api/v1/repos/%s/%s/", testOwner, testRepo)
	route := strings.TrimPrefix(r.URL.Path, prefix)

	switch {
	case r.Method == http.MethodPost && route == "pulls":
		resp := stubResponse{status: http.StatusInternalServerError, body: "no stubbed create response"}
		if len(f.creates) > 0 {
			resp = f.creates[0]
			if len(f.creates) > 1 {
				f.creates = f.creates[1:]
			}
		}
		w.WriteHeader(resp.status)
		_, _ = io.WriteString(w, resp.body)

	case r.Method == http.MethodGet && strings.HasPrefix(route, "pulls/"):
		if f.getStatus != http.StatusOK {
			w.WriteHeader(f.getStatus)
			_, _ = io.WriteString(w, `{"message":"not found"}`)
			return
		}
		id := strings.TrimPrefix(route, "pulls/")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"number":   json.Number(id),
			"title":    testBranch,
			"body":     f.prBody,
			"html_url": f.server.URL + "/" + testOwner + "/" + testRepo + "/pulls/" + id,
		})

	case r.Method == http.MethodPatch && strings.HasPrefix(route, "pulls/"):
		if f.patchStatus >= 300 {
			w.WriteHeader(f.patchStatus)
			_, _ = io.WriteString(w, `{"message":"patch rejected"}`)
			return
		}
		if body, ok := call.JSON["body"].(string); ok {
			f.prBody = body
		}
		w.WriteHeader(f.patchStatus)
		_, _ = io.WriteString(w, `{}`)

	case r.Method == http.MethodPost && strings.HasPrefix(route, "statuses/"):
		w.WriteHeader(f.statusStatus)
		_, _ = io.WriteString(w, `{}`)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeGitea) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func (f *fakeGitea) countCalls(method, route string) int {
	n := 0
	for _, c := range f.recorded() {
		if c.Method == method && strings.HasSuffix(c.Path, route) {
			n++
		}
	}
	return n
}

func (f *fakeGitea) body() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prBody
}

func (f *fakeGitea) setBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prBody = body
}
