package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus_MapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Invalid("bad"), http.StatusBadRequest},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{Config("no key"), http.StatusInternalServerError},
		{StorageFailure("insert", errors.New("down")), http.StatusInternalServerError},
		{Timeout("slow", nil), http.StatusGatewayTimeout},
		{Unreachable("gone", errors.New("refused")), http.StatusBadGateway},
		{UpstreamStatus(400, "bad url"), http.StatusBadRequest},
		{UpstreamStatus(0, "weird"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := Status(c.err); got != c.want {
			t.Fatalf("Status(%v)=%d want %d", c.err, got, c.want)
		}
	}
}

func TestWrappedErrorKeepsKind(t *testing.T) {
	err := fmt.Errorf("submit: %w", StorageFailure("could not save", errors.New("conn reset")))
	if KindOf(err) != Storage {
		t.Fatalf("want Storage, got %v", KindOf(err))
	}
	if Message(err) != "could not save" {
		t.Fatalf("message leaked cause: %q", Message(err))
	}
	if Message(errors.New("x")) != "internal error" {
		t.Fatalf("unclassified errors should not leak text")
	}
}
