package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStatusCheck_JSONShape(t *testing.T) {
	sc := StatusCheck{
		ID:         "S1",
		ClientName: "web",
		Timestamp:  time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(sc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["client_name"] != "web" || m["timestamp"] != "2025-08-18T12:00:00Z" {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestContactSubmission_OptionalFieldsAreNull(t *testing.T) {
	cs := ContactSubmission{ID: "C1", Name: "Ana", Email: "ana@example.com", Message: "hi"}
	b, err := json.Marshal(cs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"company", "phone", "service", "budget", "timeline"} {
		v, ok := m[k]
		if !ok || v != nil {
			t.Fatalf("%s: want explicit null, got %v (present=%v)", k, v, ok)
		}
	}
}

func TestNewStatusCheck_UniqueIDsAndUTC(t *testing.T) {
	a := NewStatusCheck("x")
	b := NewStatusCheck("x")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids not unique: %q %q", a.ID, b.ID)
	}
	if a.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not UTC: %v", a.Timestamp)
	}
}

func TestContactForm_RecaptchaTokenKeys(t *testing.T) {
	cases := []struct {
		body, want string
	}{
		{`{"name":"a","email":"a@b.co","message":"hi","recaptchaToken":"tok"}`, "tok"},
		{`{"name":"a","email":"a@b.co","message":"hi","recaptcha_token":"snake"}`, "snake"},
		{`{"recaptchaToken":"camel","recaptcha_token":"snake"}`, "camel"},
		{`{"name":"a"}`, ""},
	}
	for _, c := range cases {
		var f ContactForm
		if err := json.Unmarshal([]byte(c.body), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", c.body, err)
		}
		if f.RecaptchaToken != c.want {
			t.Fatalf("%s: token=%q want %q", c.body, f.RecaptchaToken, c.want)
		}
	}

	var f ContactForm
	if err := json.Unmarshal([]byte(`{"name":"Ana","company":"Acme","website_url":"x"}`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Name != "Ana" || f.Company == nil || *f.Company != "Acme" || f.WebsiteURL != "x" {
		t.Fatalf("other fields lost: %+v", f)
	}
	if err := json.Unmarshal([]byte(`{"name":`), &f); err == nil {
		t.Fatalf("malformed body should fail")
	}
}
