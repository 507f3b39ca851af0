package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestListIncludesZeroCount(t *testing.T) {
	rr := httptest.NewRecorder()
	List(rr, []string{}, 0)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeEnvelope(t, rr)
	if body["status"] != "success" {
		t.Fatalf("status field = %v", body["status"])
	}
	if count, ok := body["count"].(float64); !ok || count != 0 {
		t.Fatalf("count = %v, want 0", body["count"])
	}
}

func TestErrorHidesCause(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	Error(rr, req, apperrors.Wrap(apperrors.CodeStorageUnavailable, "storage unavailable", errors.New("dial tcp 10.0.0.1: refused")))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}
	if strings.Contains(rr.Body.String(), "10.0.0.1") {
		t.Fatalf("response leaked cause: %s", rr.Body.String())
	}
	body := decodeEnvelope(t, rr)
	if body["code"] != string(apperrors.CodeStorageUnavailable) {
		t.Fatalf("code = %v", body["code"])
	}
}

func TestErrorDefaultsToInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Error(rr, req, errors.New("unexpected"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	body := decodeEnvelope(t, rr)
	if body["message"] != "internal server error" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"title":"buy milk"}`},
		{name: "empty", body: ``, wantErr: true},
		{name: "malformed", body: `{"title":`, wantErr: true},
		{name: "too large", body: `{"title":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tt.body))
			var dst struct {
				Title string `json:"title"`
			}
			err := DecodeJSON(rr, req, &dst)
			if tt.wantErr {
				if apperrors.CodeOf(err) != apperrors.CodeValidation {
					t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeValidation)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if dst.Title != "buy milk" {
				t.Fatalf("title = %q", dst.Title)
			}
		})
	}
}
