package integration

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// TestWebUI_EvaluateForm submits the calculator form and follows the
// redirect to the result page.
func TestWebUI_EvaluateForm(t *testing.T) {
	base := strings.TrimRight(testServer, "/")
	resp, err := httpClient.PostForm(base+"/ui/evaluate", url.Values{"expression": {"6*7"}})
	if err != nil {
		t.Fatalf("HTTP error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after redirect, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	if !strings.Contains(html, "42") {
		t.Error("expected result on page")
	}
	if !strings.Contains(html, "(IntNumber:6)*(IntNumber:7)") {
		t.Error("expected definition on page")
	}
}
