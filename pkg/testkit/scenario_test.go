package testkit_test

import (
	"bytes"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/pkg/testkit"
)

var testHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	case "/echo":
		_ = r.ParseForm()
		http.Redirect(w, r, "/?status=success&message="+url.QueryEscape(r.FormValue("name")), http.StatusSeeOther)
	default:
		http.NotFound(w, r)
	}
})

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, testHandler, "testdata")
}

func TestLoadAllFromDirSkipsBodyFiles(t *testing.T) {
	scenarios, errs := testkit.LoadAllFromDir("testdata")
	require.Empty(t, errs)
	require.Len(t, scenarios, 2)

	// sorted by file name
	assert.Equal(t, "echo form redirects", scenarios[0].Name)
	assert.Equal(t, "POST", scenarios[0].RequestMethod)
	assert.Equal(t, "application/x-www-form-urlencoded", scenarios[0].ContentType)
	assert.Equal(t, "GET", scenarios[1].RequestMethod)
	assert.Equal(t, "application/json", scenarios[1].ContentType)
	assert.FileExists(t, scenarios[1].ResponseBodyPath())
}

func TestLoadScenarioRequiresExpectedCode(t *testing.T) {
	_, err := testkit.LoadScenario("testdata/health_check_res.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestAssertJSONBodyIgnoresKeyOrder(t *testing.T) {
	s := &testkit.Scenario{Name: "json assert test", ExpectedCode: 200}
	testkit.AssertJSONBody(t, s, []byte(`{"name":"Cap","stock":3}`), []byte(`{"stock":  3, "name": "Cap"}`))
}

func TestDiffJSON(t *testing.T) {
	diffs := testkit.DiffJSON("",
		map[string]interface{}{"a": 1.0, "b": []interface{}{"x"}},
		map[string]interface{}{"a": 2.0, "b": []interface{}{"x", "y"}},
	)
	assert.Len(t, diffs, 2)

	var buf bytes.Buffer
	testkit.DumpScenario(&buf, &testkit.Scenario{Name: "n", RequestMethod: "GET", RequestURL: "/", ExpectedCode: 200})
	assert.Contains(t, buf.String(), "GET / → 200")
}
