package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCheckFullCycle(t *testing.T) {
	e := newEnv()

	// Register Alice from three frames, one without a face; the stored
	// embedding is the normalized mean of the two usable ones.
	w := postJSON(t, e.registerHandler().Register, RegisterRequest{
		IdentityID: "emp-1",
		Name:       "Alice",
		Frames: []string{
			e.frame("reg1", []float32{0.9, 0.1, 0}),
			e.frame("reg2", []float32{1.0, 0, 0.1}),
			e.frame("reg3", nil),
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("registration failed: %d %s", w.Code, w.Body.String())
	}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	check := e.checkHandler(func() time.Time { return now })

	// A frame close to the registered direction checks Alice in.
	checkFrame := e.frame("live", []float32{0.95, 0.05, 0.05})
	w = postJSON(t, check.Check, CheckRequest{Frame: checkFrame})
	if w.Code != http.StatusOK {
		t.Fatalf("check failed: %d %s", w.Code, w.Body.String())
	}
	resp := decodeResponse[CheckResponse](t, w)
	if resp.IdentityID != "emp-1" || resp.Name != "Alice" {
		t.Fatalf("matched %+v, want Alice", resp)
	}
	if resp.Status != "checkin" {
		t.Errorf("first check status = %s, want checkin", resp.Status)
	}
	if resp.Similarity < 0.6 {
		t.Errorf("similarity %f below threshold yet matched", resp.Similarity)
	}
	if !strings.Contains(resp.Message, "Alice") {
		t.Errorf("message %q should name the person", resp.Message)
	}

	// Same day, second check toggles to checkout.
	now = now.Add(8 * time.Hour)
	w = postJSON(t, check.Check, CheckRequest{Frame: checkFrame})
	resp = decodeResponse[CheckResponse](t, w)
	if resp.Status != "checkout" {
		t.Errorf("second check status = %s, want checkout", resp.Status)
	}

	// Next morning resets to checkin.
	now = now.AddDate(0, 0, 1)
	w = postJSON(t, check.Check, CheckRequest{Frame: checkFrame})
	resp = decodeResponse[CheckResponse](t, w)
	if resp.Status != "checkin" {
		t.Errorf("next-day check status = %s, want checkin", resp.Status)
	}
}

func TestCheckNoFace(t *testing.T) {
	e := newEnv()
	check := e.checkHandler(nil)

	w := postJSON(t, check.Check, CheckRequest{Frame: e.frame("empty", nil)})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeResponse[CheckResponse](t, w)
	if resp.Message != "no face detected" || resp.IdentityID != "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCheckNotRecognized(t *testing.T) {
	e := newEnv()
	// Alice points along x; the stranger along y, well below the threshold.
	postJSON(t, e.registerHandler().Register, RegisterRequest{
		IdentityID: "emp-1",
		Name:       "Alice",
		Frames:     []string{e.frame("reg", []float32{1, 0, 0})},
	})
	check := e.checkHandler(nil)

	w := postJSON(t, check.Check, CheckRequest{Frame: e.frame("stranger", []float32{0, 1, 0})})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeResponse[CheckResponse](t, w)
	if resp.Message != "face not recognized" || resp.IdentityID != "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCheckInvalidBody(t *testing.T) {
	e := newEnv()
	check := e.checkHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	check.Check(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCheckInvalidFrame(t *testing.T) {
	e := newEnv()
	check := e.checkHandler(nil)

	w := postJSON(t, check.Check, CheckRequest{Frame: "!!not base64!!"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCheckExtractorDown(t *testing.T) {
	e := newEnv()
	e.extractor.err = errors.New("connection refused")
	check := e.checkHandler(nil)

	w := postJSON(t, check.Check, CheckRequest{Frame: e.frame("live", nil)})
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestCheckDimensionMismatch(t *testing.T) {
	e := newEnv()
	check := e.checkHandler(nil)

	// Extractor returns a vector of the wrong length.
	w := postJSON(t, check.Check, CheckRequest{Frame: e.frame("bad", []float32{1, 0})})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCheckStoreDown(t *testing.T) {
	e := newEnv()
	e.store.GetAllError = errors.New("connection refused")
	check := e.checkHandler(nil)

	w := postJSON(t, check.Check, CheckRequest{Frame: e.frame("live", []float32{1, 0, 0})})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
