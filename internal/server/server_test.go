package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ppiankov/copywatch/internal/config"
	"github.com/ppiankov/copywatch/internal/engine"
	"github.com/ppiankov/copywatch/internal/model"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	eng, err := engine.Open(context.Background(), &config.Config{
		Storage: config.StorageConfig{Backend: "memory"},
		Judge:   config.JudgeConfig{Kind: "none"},
	})
	if err != nil {
		t.Fatalf("engine.Open: %v", err)
	}

	ts := httptest.NewServer(NewWithEngine(eng, 0).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func postJSON(t *testing.T, url string, body string, into any) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestListRulesSeedsDefaults(t *testing.T) {
	ts := testServer(t)

	var out struct {
		Rules []model.Rule `json:"rules"`
	}
	getJSON(t, ts.URL+"/v1/rules", &out)
	if len(out.Rules) != 6 {
		t.Errorf("default rules = %d, want 6", len(out.Rules))
	}
}

func TestAddUpdateDeleteRule(t *testing.T) {
	ts := testServer(t)

	var added model.Rule
	resp := postJSON(t, ts.URL+"/v1/rules",
		`{"title":"no spam words","category":"other","forbiddenWords":["ด่วน!!"],"severity":"low","isActive":true}`,
		&added)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status = %d", resp.StatusCode)
	}
	if added.ID == "" {
		t.Fatal("added rule has no id")
	}

	// PATCH
	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/v1/rules/"+added.ID,
		bytes.NewReader([]byte(`{"severity":"critical"}`)))
	patchResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	var updated model.Rule
	json.NewDecoder(patchResp.Body).Decode(&updated)
	patchResp.Body.Close()
	if updated.Severity != model.SevCritical || updated.Title != "no spam words" {
		t.Errorf("patched rule = %+v", updated)
	}

	// DELETE
	del, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/rules/"+added.ID, nil)
	delResp, err := http.DefaultClient.Do(del)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", delResp.StatusCode)
	}

	if r := getJSON(t, ts.URL+"/v1/rules/"+added.ID, nil); r.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", r.StatusCode)
	}
}

func TestAddRejectsInvalidRule(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/v1/rules", `{"title":"","category":"other"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCheckEndpoint(t *testing.T) {
	ts := testServer(t)

	var out struct {
		CheckID string `json:"checkId"`
		model.CheckResult
	}
	postJSON(t, ts.URL+"/v1/check", `{"text":"อาหารเสริมนี้รักษาเบาหวานได้"}`, &out)

	if !out.IsViolating {
		t.Error("default medical rule should flag the text")
	}
	if out.CheckID == "" {
		t.Error("check response missing checkId")
	}
	if out.OverallRisk == 0 {
		t.Error("risk should be non-zero")
	}
}

func TestCheckRequiresText(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/v1/check", `{}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestImportRejectsMalformedBlob(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/v1/rules/import", `{"metadata":{}}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	// Store untouched: defaults still present.
	var out struct {
		Rules []model.Rule `json:"rules"`
	}
	getJSON(t, ts.URL+"/v1/rules", &out)
	if len(out.Rules) != 6 {
		t.Errorf("rules after failed import = %d, want 6", len(out.Rules))
	}
}

func TestExportImportViaAPI(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/v1/rules/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var blob bytes.Buffer
	blob.ReadFrom(resp.Body)
	resp.Body.Close()

	imp := postJSON(t, ts.URL+"/v1/rules/import", blob.String(), nil)
	if imp.StatusCode != http.StatusOK {
		t.Errorf("import of exported blob = %d", imp.StatusCode)
	}
}

func TestResetEndpointReportsMetadata(t *testing.T) {
	ts := testServer(t)
	postJSON(t, ts.URL+"/v1/rules/import", `{"rules":[]}`, nil)

	var meta model.Metadata
	postJSON(t, ts.URL+"/v1/rules/reset", "", &meta)
	if meta.TotalRules != 6 || meta.ActiveRules != 6 {
		t.Errorf("metadata after reset = %+v", meta)
	}
}

func TestBriefEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/v1/brief")
	if err != nil {
		t.Fatalf("brief: %v", err)
	}
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	resp.Body.Close()

	if !strings.HasPrefix(body.String(), "STRICT POLICY ENFORCEMENT") {
		t.Errorf("brief does not start with heading: %q", body.String()[:40])
	}
}

func TestByCategoryRejectsUnknown(t *testing.T) {
	ts := testServer(t)

	resp := getJSON(t, ts.URL+"/v1/rules/category/payments", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMetricsExposed(t *testing.T) {
	ts := testServer(t)
	postJSON(t, ts.URL+"/v1/check", `{"text":"สวัสดี"}`, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	resp.Body.Close()

	if !strings.Contains(body.String(), "copywatch_checks_total") {
		t.Error("metrics output missing copywatch_checks_total")
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts := testServer(t)

	var out struct {
		Rules []model.Rule `json:"rules"`
	}
	getJSON(t, ts.URL+"/v1/rules/search?q="+url.QueryEscape("รักษา"), &out)
	if len(out.Rules) != 1 {
		t.Errorf("search rules = %d, want 1", len(out.Rules))
	}
}
