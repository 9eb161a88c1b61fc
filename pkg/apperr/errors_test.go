package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Newf(Validation, "bad input"), http.StatusBadRequest},
		{Newf(LimitExceeded, "too big"), http.StatusBadRequest},
		{Newf(Unauthorized, "nope"), http.StatusUnauthorized},
		{Newf(Configuration, "no secret"), http.StatusInternalServerError},
		{RemoteHTTP(418, []byte(`{"msg":"teapot"}`)), 418},
		{Wrap(Remote, errors.New("dial tcp: refused"), "venue call failed"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for i, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("case %d: status = %d, want %d", i, got, tc.want)
		}
	}
}

func TestRemoteHTTP_BodyHandling(t *testing.T) {
	e := RemoteHTTP(400, []byte(`{"code":-1121}`))
	if string(e.Body) != `{"code":-1121}` {
		t.Fatalf("json body not preserved: %s", e.Body)
	}

	e = RemoteHTTP(502, []byte("<html>bad gateway</html>"))
	if e.Body != nil {
		t.Fatalf("non-json body must not be kept verbatim: %s", e.Body)
	}
	if want := "venue returned 502: <html>bad gateway</html>"; e.Msg != want {
		t.Fatalf("msg = %q", e.Msg)
	}
}

func TestAs_ThroughWrapping(t *testing.T) {
	inner := Newf(LimitExceeded, "qty 10 exceeds 5")
	wrapped := fmt.Errorf("placing order: %w", inner)

	if !IsKind(wrapped, LimitExceeded) {
		t.Fatal("kind lost through wrapping")
	}
	if As(errors.New("other")) != nil {
		t.Fatal("As matched a non-apperr error")
	}
}
