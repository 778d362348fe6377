package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecaptcha_Verify(t *testing.T) {
	var gotSecret, gotResponse, gotIP string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotSecret = r.PostForm.Get("secret")
		gotResponse = r.PostForm.Get("response")
		gotIP = r.PostForm.Get("remoteip")
		w.Header().Set("Content-Type", "application/json")
		switch gotResponse {
		case "human":
			_, _ = w.Write([]byte(`{"success":true,"score":0.9}`))
		case "bot":
			_, _ = w.Write([]byte(`{"success":true,"score":0.2}`))
		default:
			_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
		}
	}))
	defer ts.Close()

	rc := NewRecaptcha("s3cret")
	rc.VerifyURL = ts.URL

	v, err := rc.Verify(context.Background(), "human", "203.0.113.1")
	if err != nil || !v.Success {
		t.Fatalf("want success, got %+v err=%v", v, err)
	}
	if gotSecret != "s3cret" || gotIP != "203.0.113.1" {
		t.Fatalf("form not sent as expected: secret=%q ip=%q", gotSecret, gotIP)
	}

	if v, _ := rc.Verify(context.Background(), "bot", "unknown"); v.Success || v.Score != 0.2 {
		t.Fatalf("low score should fail: %+v", v)
	}
	if gotIP != "" {
		t.Fatalf("non-IP remote address should not be forwarded, got %q", gotIP)
	}

	v, _ = rc.Verify(context.Background(), "garbage", "")
	if v.Success || len(v.Codes) != 1 {
		t.Fatalf("want failure with codes, got %+v", v)
	}
}

func TestNewRecaptcha_Disabled(t *testing.T) {
	if NewRecaptcha("") != nil {
		t.Fatalf("empty secret should disable recaptcha")
	}
}
